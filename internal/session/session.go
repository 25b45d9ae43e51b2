package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/cache"
	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/feed"
	"github.com/spec-kit/helpdesk-portal/internal/observability"
	"github.com/spec-kit/helpdesk-portal/internal/remote"
)

// Session is one authenticated user's scope: the token, the resolved user,
// and the polling feeds backing every protected view. Feeds are created
// lazily on first view access and all stop together when the session closes,
// so no refresh loop outlives the token that started it.
type Session struct {
	ID        string
	Token     string
	User      *domain.User
	CreatedAt time.Time
	ExpiresAt time.Time

	deps sessionDeps

	ctx    context.Context
	cancel context.CancelFunc

	mu                sync.Mutex
	ticketFeeds       map[string]*feed.Feed[[]domain.Ticket]
	myTicketsFeed     *feed.Feed[[]domain.Ticket]
	usersFeed         *feed.Feed[[]domain.User]
	feedbackFeed      *feed.Feed[[]domain.FeedbackItem]
	evaluationFeed    *feed.Feed[[]domain.EvaluationTicket]
	teamMetricsFeed   *feed.Feed[domain.TeamMetrics]
	ticketMetricsFeed *feed.Feed[domain.TicketMetrics]
}

type sessionDeps struct {
	remote  *remote.Client
	store   cache.SnapshotStore
	feedCfg config.FeedConfig
	logger  *zap.Logger
	metrics *observability.Metrics
}

// Expired reports whether the session passed its fixed lifetime.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Close stops every feed owned by the session.
func (s *Session) Close() {
	s.cancel()
}

// LandingRoute is where a fresh login lands: staff on the dashboard,
// everyone else on the requester portal.
func (s *Session) LandingRoute() string {
	if s.User.IsStaff() {
		return "/dashboard"
	}
	return "/portal"
}

func (s *Session) feedOptions(key string) feed.Options {
	return feed.Options{
		Key:      key,
		Store:    s.deps.store,
		Interval: s.deps.feedCfg.RefreshInterval(),
		Logger:   s.deps.logger,
		Metrics:  s.deps.metrics,
	}
}

// TicketFeed returns the dashboard ticket feed for a status filter, "" (or
// "all") meaning no filter. Each status keeps its own snapshot key, matching
// how the dashboard caches one list per filter.
func (s *Session) TicketFeed(status domain.TicketStatus) *feed.Feed[[]domain.Ticket] {
	key := "all"
	if status != "" {
		key = string(status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.ticketFeeds[key]; ok {
		return f
	}

	cacheKey := fmt.Sprintf("user:%s/dashboard_tickets_%s_all", s.User.ID, key)
	f := feed.New(s.feedOptions(cacheKey), func(ctx context.Context) ([]domain.Ticket, error) {
		tickets, _, err := s.deps.remote.Tickets(ctx, s.Token, remote.TicketListOptions{Status: status})
		return tickets, err
	})
	f.Start(s.ctx)
	s.ticketFeeds[key] = f
	return f
}

// MyTicketsFeed returns the requester's own ticket list. The API already
// scopes the collection to the token's owner.
func (s *Session) MyTicketsFeed() *feed.Feed[[]domain.Ticket] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.myTicketsFeed == nil {
		key := fmt.Sprintf("user:%s/portal_tickets", s.User.ID)
		s.myTicketsFeed = feed.New(s.feedOptions(key), func(ctx context.Context) ([]domain.Ticket, error) {
			tickets, _, err := s.deps.remote.Tickets(ctx, s.Token, remote.TicketListOptions{})
			return tickets, err
		})
		s.myTicketsFeed.Start(s.ctx)
	}
	return s.myTicketsFeed
}

// UsersFeed returns the staff user list feed.
func (s *Session) UsersFeed() *feed.Feed[[]domain.User] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usersFeed == nil {
		key := fmt.Sprintf("user:%s/dashboard_users", s.User.ID)
		s.usersFeed = feed.New(s.feedOptions(key), func(ctx context.Context) ([]domain.User, error) {
			return s.deps.remote.Users(ctx, s.Token)
		})
		s.usersFeed.Start(s.ctx)
	}
	return s.usersFeed
}

// FeedbackFeed returns the staff feedback report feed.
func (s *Session) FeedbackFeed() *feed.Feed[[]domain.FeedbackItem] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feedbackFeed == nil {
		key := fmt.Sprintf("user:%s/dashboard_feedbacks", s.User.ID)
		s.feedbackFeed = feed.New(s.feedOptions(key), func(ctx context.Context) ([]domain.FeedbackItem, error) {
			return s.deps.remote.Evaluations(ctx, s.Token)
		})
		s.feedbackFeed.Start(s.ctx)
	}
	return s.feedbackFeed
}

// EvaluationFeed returns the requester's completed-tickets-to-rate feed.
func (s *Session) EvaluationFeed() *feed.Feed[[]domain.EvaluationTicket] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evaluationFeed == nil {
		key := fmt.Sprintf("user:%s/user_evaluation_tickets", s.User.ID)
		s.evaluationFeed = feed.New(s.feedOptions(key), func(ctx context.Context) ([]domain.EvaluationTicket, error) {
			return s.deps.remote.TicketsToEvaluate(ctx, s.Token)
		})
		s.evaluationFeed.Start(s.ctx)
	}
	return s.evaluationFeed
}

// TeamMetricsFeed returns the staff satisfaction metrics feed.
func (s *Session) TeamMetricsFeed() *feed.Feed[domain.TeamMetrics] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.teamMetricsFeed == nil {
		key := fmt.Sprintf("user:%s/dashboard_metricas_ti", s.User.ID)
		s.teamMetricsFeed = feed.New(s.feedOptions(key), func(ctx context.Context) (domain.TeamMetrics, error) {
			metrics, err := s.deps.remote.TeamMetrics(ctx, s.Token)
			if err != nil {
				return domain.TeamMetrics{}, err
			}
			return *metrics, nil
		})
		s.teamMetricsFeed.Start(s.ctx)
	}
	return s.teamMetricsFeed
}

// TicketMetricsFeed returns the dashboard counters feed.
func (s *Session) TicketMetricsFeed() *feed.Feed[domain.TicketMetrics] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticketMetricsFeed == nil {
		key := fmt.Sprintf("user:%s/dashboard_metrics", s.User.ID)
		s.ticketMetricsFeed = feed.New(s.feedOptions(key), func(ctx context.Context) (domain.TicketMetrics, error) {
			metrics, err := s.deps.remote.TicketMetrics(ctx, s.Token)
			if err != nil {
				return domain.TicketMetrics{}, err
			}
			return *metrics, nil
		})
		s.ticketMetricsFeed.Start(s.ctx)
	}
	return s.ticketMetricsFeed
}

// InvalidateTickets schedules a silent refresh of every started ticket feed,
// used right after an acknowledged mutation.
func (s *Session) InvalidateTickets() {
	s.mu.Lock()
	feeds := make([]*feed.Feed[[]domain.Ticket], 0, len(s.ticketFeeds)+1)
	for _, f := range s.ticketFeeds {
		feeds = append(feeds, f)
	}
	if s.myTicketsFeed != nil {
		feeds = append(feeds, s.myTicketsFeed)
	}
	s.mu.Unlock()

	for _, f := range feeds {
		f.Invalidate(s.ctx)
	}
}

// InvalidateUsers schedules a silent refresh of the user list feed.
func (s *Session) InvalidateUsers() {
	s.mu.Lock()
	f := s.usersFeed
	s.mu.Unlock()
	if f != nil {
		f.Invalidate(s.ctx)
	}
}

// InvalidateEvaluations schedules a silent refresh of the evaluation and
// feedback feeds.
func (s *Session) InvalidateEvaluations() {
	s.mu.Lock()
	evaluation := s.evaluationFeed
	feedback := s.feedbackFeed
	teamMetrics := s.teamMetricsFeed
	s.mu.Unlock()

	if evaluation != nil {
		evaluation.Invalidate(s.ctx)
	}
	if feedback != nil {
		feedback.Invalidate(s.ctx)
	}
	if teamMetrics != nil {
		teamMetrics.Invalidate(s.ctx)
	}
}

// PatchEvaluation marks a ticket as rated in the cached evaluation list so
// the form locks immediately after the API accepts the submission.
func (s *Session) PatchEvaluation(ticketID string, nota int, comentario string) {
	s.mu.Lock()
	f := s.evaluationFeed
	s.mu.Unlock()
	if f == nil {
		return
	}
	f.Patch(s.ctx, func(tickets []domain.EvaluationTicket) []domain.EvaluationTicket {
		now := time.Now().Format(time.RFC3339)
		for i := range tickets {
			if tickets[i].ID != ticketID {
				continue
			}
			if tickets[i].Avaliacao == nil {
				tickets[i].Avaliacao = &domain.Evaluation{CriadoEm: now}
			}
			tickets[i].Avaliacao.Nota = &nota
			if comentario != "" {
				tickets[i].Avaliacao.Comentario = &comentario
			}
			tickets[i].Avaliacao.RespondidoEm = &now
			tickets[i].Avaliacao.JaAvaliado = true
		}
		return tickets
	})
}

// PatchTicketStatus rewrites every cached dashboard list so the given ticket
// shows its new status before the next poll lands.
func (s *Session) PatchTicketStatus(ticketID string, status domain.TicketStatus) {
	s.mu.Lock()
	feeds := make([]*feed.Feed[[]domain.Ticket], 0, len(s.ticketFeeds)+1)
	for _, f := range s.ticketFeeds {
		feeds = append(feeds, f)
	}
	if s.myTicketsFeed != nil {
		feeds = append(feeds, s.myTicketsFeed)
	}
	s.mu.Unlock()

	for _, f := range feeds {
		f.Patch(s.ctx, func(tickets []domain.Ticket) []domain.Ticket {
			for i := range tickets {
				if tickets[i].ID == ticketID {
					tickets[i].Status = status
				}
			}
			return tickets
		})
	}
}
