package dto

import (
	"goal-route-service/internal/domain"
	"time"
)

type LimiterResponse struct {
	AttemptCount      int  `json:"attempt_count"`
	MaxAttempts       int  `json:"max_attempts"`
	RemainingAttempts int  `json:"remaining_attempts"`
	Locked            bool `json:"locked"`
	HasReset          bool `json:"has_reset"`
}

type SessionResponse struct {
	Key          string           `json:"key"`
	Plan         PlanResponse     `json:"plan"`
	DefaultRoute *OutcomeResponse `json:"default_route,omitempty"`
	CurrentRoute *OutcomeResponse `json:"current_route,omitempty"`
	Limiter      LimiterResponse  `json:"limiter"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewSessionResponse renders sess; remaining is taken from the live limiter
// so it reflects the configured reset mode.
func NewSessionResponse(sess domain.SearchSession, remaining int) SessionResponse {
	res := SessionResponse{
		Key:  sess.Key,
		Plan: NewPlanResponse(sess.Plan),
		Limiter: LimiterResponse{
			AttemptCount:      sess.Limiter.AttemptCount,
			MaxAttempts:       sess.Limiter.MaxAttempts,
			RemainingAttempts: remaining,
			Locked:            sess.Limiter.Locked,
			HasReset:          sess.Limiter.HasReset,
		},
		UpdatedAt: sess.UpdatedAt,
	}
	if sess.DefaultRoute != nil {
		o := NewOutcomeResponse(*sess.DefaultRoute)
		res.DefaultRoute = &o
	}
	if sess.CurrentRoute != nil {
		o := NewOutcomeResponse(*sess.CurrentRoute)
		res.CurrentRoute = &o
	}
	return res
}

type ClickResponse struct {
	Outcome OutcomeResponse `json:"outcome"`
	Session SessionResponse `json:"session"`
}
