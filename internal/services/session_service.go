package services

import (
	"context"
	"errors"
	"fmt"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/platform/obs"
	"goal-route-service/internal/ports"
	"time"

	"github.com/go-kit/log/level"
)

// RouteSearcher is the part of RouteEngine the session service drives.
type RouteSearcher interface {
	SearchDefaultRoute(ctx context.Context, goal domain.PlanningGoal, origin domain.Coordinates) (domain.SearchOutcome, error)
	AttemptManualRoute(ctx context.Context, goal domain.PlanningGoal, origin, clicked domain.Coordinates) (domain.SearchOutcome, error)
}

type SessionConfig struct {
	TTL         time.Duration
	MaxAttempts int
	Debounce    time.Duration
	ResetMode   domain.ResetMode
}

// SessionService runs the destination-selection protocol: a default route,
// then a bounded number of manual reselections. Sessions are loaded and saved
// around every operation, so any instance can serve any session.
type SessionService struct {
	engine RouteSearcher
	store  ports.SessionStore
	cfg    SessionConfig
	now    func() time.Time
	locks  *keyedMutex
}

func NewSessionService(engine RouteSearcher, store ports.SessionStore, cfg SessionConfig) *SessionService {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = domain.DefaultMaxAttempts
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = domain.DefaultClickDebounce
	}
	if cfg.ResetMode == "" {
		cfg.ResetMode = domain.ResetLockAndStartDefault
	}
	return &SessionService{
		engine: engine,
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		locks:  newKeyedMutex(),
	}
}

// ClickResult is the session after a manual click together with that click's outcome.
type ClickResult struct {
	Session domain.SearchSession
	Outcome domain.SearchOutcome
}

// Start opens a session for goal and origin. A live session with the same
// signature is resumed as is instead of searching again.
func (s *SessionService) Start(
	ctx context.Context,
	goal domain.PlanningGoal,
	origin domain.Coordinates,
) (domain.SearchSession, error) {
	plan, err := PlanGoal(goal)
	if err != nil {
		return domain.SearchSession{}, fmt.Errorf("start session: %w", err)
	}

	key := domain.SessionKey(goal, origin)
	unlock := s.locks.Lock(key)
	defer unlock()

	existing, err := s.store.Load(ctx, key)
	switch {
	case err == nil:
		return existing, s.save(ctx, &existing)
	case !errors.Is(err, domain.ErrSessionNotFound):
		return domain.SearchSession{}, fmt.Errorf("start session: %w", err)
	}

	outcome, err := s.engine.SearchDefaultRoute(ctx, goal, origin)
	if err != nil {
		return domain.SearchSession{}, fmt.Errorf("start session: %w", err)
	}

	current := outcome
	sess := domain.SearchSession{
		Key:          key,
		Goal:         goal,
		Origin:       origin,
		Plan:         plan,
		DefaultRoute: &outcome,
		CurrentRoute: &current,
		Limiter:      domain.NewAttemptLimiter(s.cfg.MaxAttempts).State(),
	}
	if err := s.save(ctx, &sess); err != nil {
		return domain.SearchSession{}, fmt.Errorf("start session: %w", err)
	}
	return sess, nil
}

// Click tries the clicked point as a new destination. Locked and debounced
// clicks are rejected before any provider call and leave the session untouched.
func (s *SessionService) Click(ctx context.Context, key string, point domain.Coordinates) (ClickResult, error) {
	unlock := s.locks.Lock(key)
	defer unlock()

	sess, err := s.store.Load(ctx, key)
	if err != nil {
		return ClickResult{}, fmt.Errorf("click: %w", err)
	}

	limiter := s.limiter(sess)
	if err := limiter.Tap(s.now()); err != nil {
		return ClickResult{Session: sess}, fmt.Errorf("click: %w", err)
	}

	outcome, searchErr := s.engine.AttemptManualRoute(ctx, sess.Goal, sess.Origin, point)
	if searchErr == nil && outcome.Found() {
		limiter.RegisterValidClick()
		sess.CurrentRoute = &outcome
	}
	sess.Limiter = limiter.State()

	if err := s.save(ctx, &sess); err != nil {
		return ClickResult{}, fmt.Errorf("click: %w", err)
	}
	if searchErr != nil {
		return ClickResult{Session: sess}, fmt.Errorf("click: %w", searchErr)
	}
	return ClickResult{Session: sess, Outcome: outcome}, nil
}

// Reset applies the configured reset mode and redisplays the default route.
func (s *SessionService) Reset(ctx context.Context, key string) (domain.SearchSession, error) {
	unlock := s.locks.Lock(key)
	defer unlock()

	sess, err := s.store.Load(ctx, key)
	if err != nil {
		return domain.SearchSession{}, fmt.Errorf("reset session: %w", err)
	}

	limiter := s.limiter(sess)
	limiter.Reset()
	sess.Limiter = limiter.State()
	if sess.DefaultRoute != nil {
		current := *sess.DefaultRoute
		sess.CurrentRoute = &current
	}

	if err := s.save(ctx, &sess); err != nil {
		return domain.SearchSession{}, fmt.Errorf("reset session: %w", err)
	}
	return sess, nil
}

func (s *SessionService) Status(ctx context.Context, key string) (domain.SearchSession, error) {
	sess, err := s.store.Load(ctx, key)
	if err != nil {
		return domain.SearchSession{}, fmt.Errorf("session status: %w", err)
	}
	return sess, nil
}

// End discards the session, as when the user leaves the selection screen.
func (s *SessionService) End(ctx context.Context, key string) error {
	unlock := s.locks.Lock(key)
	defer unlock()

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// Limiter rebuilds the attempt limiter of sess for read-only queries.
func (s *SessionService) Limiter(sess domain.SearchSession) *domain.AttemptLimiter {
	return s.limiter(sess)
}

func (s *SessionService) limiter(sess domain.SearchSession) *domain.AttemptLimiter {
	return domain.RestoreAttemptLimiter(
		sess.Limiter,
		domain.WithResetMode(s.cfg.ResetMode),
		domain.WithDebounce(s.cfg.Debounce),
		domain.WithOnLock(func(st domain.LimiterState) {
			level.Info(obs.Logger()).Log(
				"msg", "manual attempts locked",
				"session", sess.Key,
				"attempts", st.AttemptCount,
			)
		}),
	)
}

func (s *SessionService) save(ctx context.Context, sess *domain.SearchSession) error {
	sess.UpdatedAt = s.now().UTC()
	return s.store.Save(ctx, *sess, s.cfg.TTL)
}
