package service

import (
	"context"
	"log"
	"time"

	"mindpath/internal/repository"
)

// OutboxWorker drains the analysis outbox. It wakes on a fixed ticker
// and on intake nudges, claims pending tasks one at a time and runs the
// orchestrator once per task. There is no retry loop: a failed task is
// marked failed and its submission stays in "processing".
type OutboxWorker struct {
	outboxRepo   repository.OutboxRepo
	orchestrator *Orchestrator
	interval     time.Duration
	wake         chan struct{}
}

// NewOutboxWorker creates the analysis worker
func NewOutboxWorker(outboxRepo repository.OutboxRepo, orchestrator *Orchestrator, interval time.Duration) *OutboxWorker {
	return &OutboxWorker{
		outboxRepo:   outboxRepo,
		orchestrator: orchestrator,
		interval:     interval,
		wake:         make(chan struct{}, 1),
	}
}

// Notify wakes the worker without blocking the caller
func (w *OutboxWorker) Notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until the context is cancelled
func (w *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.drain(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-w.wake:
		}
	}
}

// drain claims and runs pending tasks until the queue is empty
func (w *OutboxWorker) drain(ctx context.Context) {
	for {
		task, err := w.outboxRepo.ClaimNextPending(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("outbox worker: claim failed: %v", err)
			}
			return
		}
		if task == nil {
			return
		}

		if err := w.orchestrator.Analyze(ctx, task.SubmissionID); err != nil {
			log.Printf("outbox worker: analysis of %s failed: %v", task.SubmissionID, err)
			if markErr := w.outboxRepo.MarkFailed(ctx, task.ID, err.Error()); markErr != nil {
				log.Printf("outbox worker: mark failed errored for task %s: %v", task.ID, markErr)
			}
			continue
		}

		if err := w.outboxRepo.MarkDone(ctx, task.ID); err != nil {
			log.Printf("outbox worker: mark done errored for task %s: %v", task.ID, err)
		}
	}
}
