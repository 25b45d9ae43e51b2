package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/cache"
	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/feed"
	"github.com/spec-kit/helpdesk-portal/internal/observability"
	"github.com/spec-kit/helpdesk-portal/internal/remote"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// Manager owns every live session. It is the only place that turns a bearer
// token into a user: cookie in, session out. Sessions are advisory state;
// losing one just means the next request bootstraps again via the API.
type Manager struct {
	remote  *remote.Client
	store   cache.SnapshotStore
	cfg     config.SessionConfig
	feedCfg config.FeedConfig
	logger  *zap.Logger
	metrics *observability.Metrics

	mu       sync.Mutex
	sessions map[string]*Session // keyed by token
}

// ManagerDependencies bundles what the manager needs.
type ManagerDependencies struct {
	Remote  *remote.Client
	Store   cache.SnapshotStore
	Config  config.SessionConfig
	FeedCfg config.FeedConfig
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// NewManager builds the session manager.
func NewManager(deps ManagerDependencies) *Manager {
	return &Manager{
		remote:   deps.Remote,
		store:    deps.Store,
		cfg:      deps.Config,
		feedCfg:  deps.FeedCfg,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		sessions: make(map[string]*Session),
	}
}

// Login exchanges credentials for a session. Login failures from the API
// (wrong password, unknown email) pass through untouched so the form can
// show the API's message.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	result, err := m.remote.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if result.User == nil || result.Token == "" {
		return nil, apperrors.NewUnavailable("login response missing user or token", nil)
	}

	sess := m.newSession(result.User, result.Token)
	m.logger.Info("session started",
		zap.String("session_id", sess.ID),
		zap.String("user", result.User.Email),
		zap.Bool("staff", result.User.IsStaff()))
	return sess, nil
}

// Resolve turns a stored token into a session. A token already backing a
// live session reuses it; otherwise the user is re-fetched from the API.
// A token whose embedded expiry has passed is rejected without a network
// call.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorized("missing token")
	}

	m.mu.Lock()
	existing, ok := m.sessions[token]
	m.mu.Unlock()
	if ok {
		if existing.Expired(time.Now()) {
			m.Logout(token)
			return nil, apperrors.NewUnauthorized("session expired")
		}
		return existing, nil
	}

	if Expired(token, time.Now()) {
		return nil, apperrors.NewUnauthorized("token expired")
	}

	user, err := m.remote.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewUnauthorized("unknown user")
	}

	sess := m.newSession(user, token)
	m.logger.Info("session restored",
		zap.String("session_id", sess.ID),
		zap.String("user", user.Email))
	return sess, nil
}

// Logout drops the session for a token and stops its feeds. No API call is
// made: tokens are stateless bearers and simply stop being presented.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	sess, ok := m.sessions[token]
	if ok {
		delete(m.sessions, token)
	}
	m.mu.Unlock()

	if ok {
		sess.Close()
		m.logger.Info("session ended", zap.String("session_id", sess.ID))
	}
}

// ByID finds a live session by its id.
func (m *Manager) ByID(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sess := range m.sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return nil, false
}

// EvictExpired closes sessions past their lifetime and returns how many.
func (m *Manager) EvictExpired(now time.Time) int {
	m.mu.Lock()
	var expired []*Session
	for token, sess := range m.sessions {
		if sess.Expired(now) {
			delete(m.sessions, token)
			expired = append(expired, sess)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
		m.logger.Info("session evicted", zap.String("session_id", sess.ID))
	}
	return len(expired)
}

// CloseAll tears down every session, used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for token, sess := range m.sessions {
		delete(m.sessions, token)
		sessions = append(sessions, sess)
	}
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}

func (m *Manager) newSession(user *domain.User, token string) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.CookieTTL()),
		deps: sessionDeps{
			remote:  m.remote,
			store:   m.store,
			feedCfg: m.feedCfg,
			logger:  m.logger,
			metrics: m.metrics,
		},
		ctx:         ctx,
		cancel:      cancel,
		ticketFeeds: make(map[string]*feed.Feed[[]domain.Ticket]),
	}

	// If the token itself expires sooner than the cookie would, honor it.
	if exp, ok := Expiry(token); ok && exp.Before(sess.ExpiresAt) {
		sess.ExpiresAt = exp
	}

	m.mu.Lock()
	displaced := m.sessions[token]
	m.sessions[token] = sess
	m.mu.Unlock()

	// A re-login (or two resolves racing past the map check) may hand out the
	// same token twice. The displaced session left the map, so nothing else
	// can ever close it: stop its feeds here.
	if displaced != nil {
		displaced.Close()
		m.logger.Info("session displaced", zap.String("session_id", displaced.ID))
	}
	return sess
}
