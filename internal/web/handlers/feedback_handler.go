package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/pager"
	"github.com/spec-kit/helpdesk-portal/internal/service"
)

// TabIDHeader carries the client-generated tab identifier that scopes saved
// page/filter selections. Two tabs on one session page independently.
const TabIDHeader = "X-Tab-Id"

const feedbackView = "dashboard_feedback"

// FeedbackHandler serves the staff feedback report: the rated-tickets table
// with its per-tab page/filter memory, the team metrics and the responsible
// filter options.
type FeedbackHandler struct {
	feedback *service.FeedbackService
	states   *pager.StateStore
	pageSize int
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(feedback *service.FeedbackService, states *pager.StateStore, cfg config.FeedConfig) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, states: states, pageSize: cfg.PageSize}
}

// List handles GET /dashboard/feedback. When the request names no page or
// filter, the tab's last saved selection is restored; a changed filter resets
// to page 1 the same way a fresh view would. The page parameter takes a
// number or "next"/"prev" relative to the tab's saved page, and stepping
// beyond either end stays put.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}

	items, state := sess.FeedbackFeed().Get()

	tabID := c.Get(TabIDHeader)
	responsible := c.Query("responsavel")
	pageQuery := c.Query("page")

	var saved pager.ViewState
	hasSaved := false
	if tabID != "" {
		saved, hasSaved = h.states.Get(tabID, feedbackView)
	}
	if hasSaved && responsible == "" && pageQuery == "" {
		responsible = saved.Filter
		pageQuery = strconv.Itoa(saved.Page)
	}

	p := pager.New[domain.FeedbackItem](h.pageSize)
	p.SetFilter(func(item domain.FeedbackItem) bool {
		return service.MatchesResponsible(item, responsible)
	})
	p.SetItems(items)

	// The saved page only carries over while the filter is unchanged.
	base := 1
	if hasSaved && saved.Filter == responsible {
		base = saved.Page
	}
	switch pageQuery {
	case "":
		p.SetPage(base)
	case "next":
		p.SetPage(base)
		p.Next()
	case "prev":
		p.SetPage(base)
		p.Prev()
	default:
		if parsed, err := strconv.Atoi(pageQuery); err == nil {
			p.SetPage(parsed)
		} else {
			p.SetPage(base)
		}
	}

	visible := p.Page()
	page := p.PageIndex()

	if tabID != "" {
		h.states.Put(tabID, feedbackView, pager.ViewState{Page: page, Filter: responsible})
	}

	return c.JSON(fiber.Map{
		"feedbacks":   visible,
		"page":        page,
		"total_pages": p.TotalPages(),
		"total":       p.FilteredCount(),
		"responsavel": responsible,
		"state":       renderState(state.HasData, state.Loading, state.Err, ""),
	})
}

// TeamMetrics handles GET /dashboard/feedback/metrics: the satisfaction
// aggregates for the staff team and each member.
func (h *FeedbackHandler) TeamMetrics(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	metrics, state := sess.TeamMetricsFeed().Get()
	return c.JSON(fiber.Map{
		"metricas": metrics,
		"state":    renderState(state.HasData, state.Loading, state.Err, ""),
	})
}

// StaffNames handles GET /dashboard/feedback/staff: options for the
// responsible filter dropdown.
func (h *FeedbackHandler) StaffNames(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	names, err := h.feedback.StaffNames(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"funcionarios": names})
}

// CloseTab handles DELETE /dashboard/tabs/:tabId, dropping the tab's saved
// view state when the client unloads.
func (h *FeedbackHandler) CloseTab(c *fiber.Ctx) error {
	h.states.DropTab(c.Params("tabId"))
	return c.SendStatus(fiber.StatusNoContent)
}
