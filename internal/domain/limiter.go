package domain

import (
	"fmt"
	"time"
)

const (
	DefaultMaxAttempts   = 3
	DefaultClickDebounce = 600 * time.Millisecond
)

// ResetMode selects what AttemptLimiter.Reset does. Both modes redisplay the default route.
type ResetMode string

const (
	// ResetLockAndStartDefault pins the count at max and stays locked.
	ResetLockAndStartDefault ResetMode = "lock_and_start_default"
	// ResetFullRearm zeroes the count and re-arms.
	ResetFullRearm ResetMode = "full_rearm"
)

func ParseResetMode(s string) (ResetMode, error) {
	switch ResetMode(s) {
	case ResetLockAndStartDefault, ResetFullRearm:
		return ResetMode(s), nil
	case "":
		return ResetLockAndStartDefault, nil
	default:
		return "", fmt.Errorf("unknown reset mode %q", s)
	}
}

// LimiterState is the persisted part of an AttemptLimiter.
type LimiterState struct {
	AttemptCount int       `json:"attempt_count"`
	MaxAttempts  int       `json:"max_attempts"`
	Locked       bool      `json:"locked"`
	HasReset     bool      `json:"has_reset"`
	LastTapAt    time.Time `json:"last_tap_at"`
}

// AttemptLimiter bounds manual destination reselection. It is Armed while
// AttemptCount < MaxAttempts and Locked once the count reaches MaxAttempts.
//
// It is not safe for concurrent use; callers confine it to a single writer.
type AttemptLimiter struct {
	state    LimiterState
	mode     ResetMode
	debounce time.Duration
	onLock   func(LimiterState)
}

type LimiterOption func(*AttemptLimiter)

func WithResetMode(m ResetMode) LimiterOption {
	return func(l *AttemptLimiter) { l.mode = m }
}

func WithDebounce(d time.Duration) LimiterOption {
	return func(l *AttemptLimiter) { l.debounce = d }
}

// WithOnLock registers a callback fired once when a click locks the limiter.
func WithOnLock(fn func(LimiterState)) LimiterOption {
	return func(l *AttemptLimiter) { l.onLock = fn }
}

func NewAttemptLimiter(maxAttempts int, opts ...LimiterOption) *AttemptLimiter {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return RestoreAttemptLimiter(LimiterState{MaxAttempts: maxAttempts}, opts...)
}

// RestoreAttemptLimiter rebuilds a limiter from persisted state.
func RestoreAttemptLimiter(state LimiterState, opts ...LimiterOption) *AttemptLimiter {
	if state.MaxAttempts < 1 {
		state.MaxAttempts = DefaultMaxAttempts
	}
	l := &AttemptLimiter{
		state:    state,
		mode:     ResetLockAndStartDefault,
		debounce: DefaultClickDebounce,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *AttemptLimiter) State() LimiterState { return l.state }

func (l *AttemptLimiter) IsLocked() bool { return l.state.Locked }

func (l *AttemptLimiter) RemainingAttempts() int {
	if l.state.Locked {
		return 0
	}
	return max(l.state.MaxAttempts-l.state.AttemptCount, 0)
}

// CanClick reports whether a tap at now would be permitted.
func (l *AttemptLimiter) CanClick(now time.Time) bool {
	return l.check(now) == nil
}

// Tap admits a tap at now, recording it as the reference for the debounce
// window. A rejected tap changes nothing.
func (l *AttemptLimiter) Tap(now time.Time) error {
	if err := l.check(now); err != nil {
		return err
	}
	l.state.LastTapAt = now
	return nil
}

func (l *AttemptLimiter) check(now time.Time) error {
	if l.state.Locked {
		return ErrAttemptsLocked
	}
	if !l.state.LastTapAt.IsZero() && now.Sub(l.state.LastTapAt) < l.debounce {
		return ErrClickDebounced
	}
	return nil
}

// RegisterValidClick consumes one attempt. Only clicks that produced an
// accepted or best-effort route should be registered.
func (l *AttemptLimiter) RegisterValidClick() {
	if l.state.Locked {
		return
	}

	l.state.AttemptCount++
	if l.state.AttemptCount >= l.state.MaxAttempts {
		l.state.AttemptCount = l.state.MaxAttempts
		l.state.Locked = true
		if l.onLock != nil {
			l.onLock(l.state)
		}
	}
}

// Reset applies the configured ResetMode.
func (l *AttemptLimiter) Reset() {
	l.state.HasReset = true

	switch l.mode {
	case ResetFullRearm:
		l.state.AttemptCount = 0
		l.state.Locked = false
		l.state.LastTapAt = time.Time{}
	default:
		l.state.AttemptCount = l.state.MaxAttempts
		l.state.Locked = true
	}
}
