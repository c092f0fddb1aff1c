package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/election"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/tally"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// LifecycleMonitor represents a service that periodically sweeps the stored
// elections and applies the scheduled state transitions: Upcoming elections
// whose start time has passed become Ongoing, Ongoing elections whose end
// time has passed become Completed.
type LifecycleMonitor struct {
	storage      *storage.Storage
	stateMachine *election.StateMachine
	interval     time.Duration
	mu           sync.Mutex
	cancel       context.CancelFunc
}

// NewLifecycleMonitor creates a new LifecycleMonitor service.
func NewLifecycleMonitor(stg *storage.Storage, interval time.Duration) *LifecycleMonitor {
	return &LifecycleMonitor{
		storage:      stg,
		stateMachine: election.NewStateMachine(stg, tally.NewResolver(stg)),
		interval:     interval,
	}
}

// Start begins the periodic sweep. It returns an error if the service is
// already running.
func (lm *LifecycleMonitor) Start(ctx context.Context) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lm.cancel != nil {
		return fmt.Errorf("service already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	lm.cancel = cancel

	go lm.run(ctx)
	return nil
}

// Stop halts the monitoring service.
func (lm *LifecycleMonitor) Stop() {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lm.cancel != nil {
		lm.cancel()
		lm.cancel = nil
	}
}

func (lm *LifecycleMonitor) run(ctx context.Context) {
	ticker := time.NewTicker(lm.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lm.Sweep(time.Now())
		}
	}
}

// Sweep applies every transition due at the given instant. Transitions
// raced by a concurrent admin call are skipped silently.
func (lm *LifecycleMonitor) Sweep(now time.Time) {
	ids, err := lm.storage.ListElections()
	if err != nil {
		log.Warnw("lifecycle sweep failed to list elections", "error", err.Error())
		return
	}
	for _, id := range ids {
		e, err := lm.storage.Election(id)
		if err != nil {
			log.Warnw("lifecycle sweep failed to load election", "electionId", id.String(), "error", err.Error())
			continue
		}
		switch {
		case e.Status == types.ElectionStatusUpcoming && !now.Before(e.StartTime):
			if _, err := lm.stateMachine.Start(id, false); err != nil {
				if !errors.Is(err, types.ErrInvalidTransition) {
					log.Warnw("scheduled start failed", "electionId", id.String(), "error", err.Error())
				}
				continue
			}
			log.Infow("election started on schedule", "electionId", id.String())
		case e.Status == types.ElectionStatusOngoing && !now.Before(e.EndTime):
			if _, err := lm.stateMachine.End(id, false); err != nil {
				if !errors.Is(err, types.ErrInvalidTransition) {
					log.Warnw("scheduled end failed", "electionId", id.String(), "error", err.Error())
				}
				continue
			}
			log.Infow("election ended on schedule", "electionId", id.String())
		}
	}
}
