package service

import (
	"context"
	"time"

	"mindpath/internal/model"
)

// Pinger is any dependency that can be liveness-probed
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to the Pinger interface
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthService probes the AI path and the datastore within hard
// bounds. A probe timeout degrades the payload; the check itself never
// errors and never exceeds its overall bound.
type HealthService struct {
	ai           AIClient // nil when no AI client is configured
	db           Pinger
	overallBound time.Duration
	aiBound      time.Duration
}

// NewHealthService creates the health reporter
func NewHealthService(ai AIClient, db Pinger, overallBound, aiBound time.Duration) *HealthService {
	return &HealthService{
		ai:           ai,
		db:           db,
		overallBound: overallBound,
		aiBound:      aiBound,
	}
}

// Check probes all dependencies concurrently and reports the degraded
// shape on any failure or timeout.
func (s *HealthService) Check(ctx context.Context) *model.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, s.overallBound)
	defer cancel()

	aiState := s.probeAI(ctx)
	dbState := s.probe(ctx, s.db)

	status := &model.HealthStatus{
		Services: model.HealthServices{
			AI:       aiState,
			Database: dbState,
			// The rule-based strategy has no external dependency.
			Analysis: model.ServiceUp,
		},
		Capabilities: model.HealthCapabilities{
			AIAnalysis:        aiState == model.ServiceUp,
			RuleBasedFallback: true,
			KnowledgeBase:     dbState == model.ServiceUp,
			RealTimeAnalysis:  aiState == model.ServiceUp,
		},
	}

	if dbState == model.ServiceUp && aiState != model.ServiceDown {
		status.Status = "healthy"
	} else {
		status.Status = "degraded"
	}
	return status
}

// probeAI bounds the AI sub-probe tighter than the whole check
func (s *HealthService) probeAI(ctx context.Context) model.ServiceState {
	if s.ai == nil {
		return model.ServiceDisabled
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.aiBound)
	defer cancel()

	if s.probe(aiCtx, PingerFunc(s.ai.Ping)) == model.ServiceUp {
		return model.ServiceUp
	}
	return model.ServiceDown
}

// probe runs one ping in a goroutine so a hung dependency cannot stall
// the check past its deadline.
func (s *HealthService) probe(ctx context.Context, p Pinger) model.ServiceState {
	if p == nil {
		return model.ServiceDisabled
	}

	done := make(chan error, 1)
	go func() {
		done <- p.Ping(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			return model.ServiceDown
		}
		return model.ServiceUp
	case <-ctx.Done():
		return model.ServiceDown
	}
}
