// Package election implements the election lifecycle state machine:
// Upcoming -> Ongoing -> Completed, with no way back. Every transition is a
// conditional update in storage, so concurrent callers (administrators and
// the background sweep) serialize per election and at most one wins.
package election

import (
	"errors"
	"fmt"
	"time"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/tally"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// StateMachine gates all lifecycle transitions of elections.
type StateMachine struct {
	store    *storage.Storage
	resolver *tally.Resolver
}

// NewStateMachine creates a new state machine over the given storage and
// tally resolver.
func NewStateMachine(store *storage.Storage, resolver *tally.Resolver) *StateMachine {
	return &StateMachine{store: store, resolver: resolver}
}

// Start transitions an election from Upcoming to Ongoing. Without force the
// scheduled start time must have been reached; force allows an early
// administrator start.
func (sm *StateMachine) Start(id types.HexBytes, force bool) (*types.Election, error) {
	e, err := sm.store.Election(id)
	if err != nil {
		return nil, err
	}
	if e.Status != types.ElectionStatusUpcoming {
		return nil, fmt.Errorf("%w: cannot start a %s election", types.ErrInvalidTransition, e.Status)
	}
	if !force && time.Now().Before(e.StartTime) {
		return nil, fmt.Errorf("%w: scheduled start not reached", types.ErrInvalidTransition)
	}
	e, err = sm.store.UpdateElectionStatus(id, types.ElectionStatusUpcoming, types.ElectionStatusOngoing)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: concurrent transition", types.ErrInvalidTransition)
		}
		return nil, err
	}
	log.Infow("election started", "electionId", id.String(), "force", force)
	return e, nil
}

// End transitions an election from Ongoing to Completed and triggers the
// tally. Without force the scheduled end time must have been reached. When
// autoDeclareResults is set and no position is tied, the results are
// published immediately; a tie anywhere holds the whole declaration for the
// declaring authority.
func (sm *StateMachine) End(id types.HexBytes, force bool) (*types.Election, error) {
	e, err := sm.store.Election(id)
	if err != nil {
		return nil, err
	}
	if e.Status != types.ElectionStatusOngoing {
		return nil, fmt.Errorf("%w: cannot end a %s election", types.ErrInvalidTransition, e.Status)
	}
	if !force && time.Now().Before(e.EndTime) {
		return nil, fmt.Errorf("%w: scheduled end not reached", types.ErrInvalidTransition)
	}
	e, err = sm.store.UpdateElectionStatus(id, types.ElectionStatusOngoing, types.ElectionStatusCompleted)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: concurrent transition", types.ErrInvalidTransition)
		}
		return nil, err
	}
	log.Infow("election ended", "electionId", id.String(), "force", force)

	report, err := sm.resolver.Compute(e)
	if err != nil {
		return nil, fmt.Errorf("compute tally: %w", err)
	}
	switch {
	case !e.AutoDeclareResults:
		log.Infow("tally computed, awaiting manual declaration",
			"electionId", id.String(), "totalVotes", report.TotalVotes)
	case report.HasTies():
		log.Warnw("tie detected, automatic declaration blocked",
			"electionId", id.String(), "tiedPositions", len(report.TiedCandidates))
	default:
		if _, err := sm.resolver.Declare(e, nil); err != nil {
			return nil, fmt.Errorf("auto-declare results: %w", err)
		}
	}
	return e, nil
}
