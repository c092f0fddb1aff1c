// Package tally aggregates recorded votes after an election completes,
// detects ties, validates tie-break selections from the declaring authority
// and publishes the frozen, anonymized result set.
package tally

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// Resolver computes and declares election results.
type Resolver struct {
	store *storage.Storage
}

// NewResolver creates a new tally resolver.
func NewResolver(store *storage.Storage) *Resolver {
	return &Resolver{store: store}
}

// Report is a computed (not yet declared) tally. Recomputable at any time
// from the vote records; becomes authoritative only once declared.
type Report struct {
	ElectionID  types.HexBytes
	TotalVotes  uint64
	TotalVoters uint64
	Positions   []types.PositionResult
	// TiedCandidates maps each tied position to the candidate IDs sharing
	// the maximum count.
	TiedCandidates map[string][]string
}

// HasTies reports whether any position of the report is tied.
func (r *Report) HasTies() bool {
	return len(r.TiedCandidates) > 0
}

// Compute aggregates the vote records of an election into a report. Every
// approved candidate appears in the ranking, including those with zero
// votes. A position is tied when two or more candidates share a maximum
// count greater than zero.
func (t *Resolver) Compute(election *types.Election) (*Report, error) {
	records, err := t.store.VotesByElection(election.ID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]map[string]uint64, len(election.Positions))
	voters := make(map[string]struct{})
	for _, rec := range records {
		if counts[rec.Position] == nil {
			counts[rec.Position] = make(map[string]uint64)
		}
		counts[rec.Position][rec.CandidateID]++
		voters[rec.Voter] = struct{}{}
	}

	report := &Report{
		ElectionID:     election.ID,
		TotalVotes:     uint64(len(records)),
		TotalVoters:    uint64(len(voters)),
		TiedCandidates: make(map[string][]string),
	}
	for _, pos := range election.Positions {
		ranking := make([]types.ResultEntry, 0, len(pos.Candidates))
		for _, cand := range pos.Candidates {
			if !cand.Approved {
				continue
			}
			ranking = append(ranking, types.ResultEntry{
				CandidateID:   cand.ID,
				CandidateName: cand.Name,
				Votes:         counts[pos.Name][cand.ID],
			})
		}
		// count descending, ballot order preserved between equals
		sort.SliceStable(ranking, func(i, j int) bool {
			return ranking[i].Votes > ranking[j].Votes
		})

		var tied []string
		if len(ranking) > 0 && ranking[0].Votes > 0 {
			for _, entry := range ranking {
				if entry.Votes == ranking[0].Votes {
					tied = append(tied, entry.CandidateID)
				}
			}
		}
		pr := types.PositionResult{Position: pos.Name, Ranking: ranking}
		if len(tied) > 1 {
			pr.Tied = true
			report.TiedCandidates[pos.Name] = tied
		}
		report.Positions = append(report.Positions, pr)
	}
	return report, nil
}

// Declare freezes the results of a completed election. Positions flagged as
// tied require an explicit winner among the tied candidates in tieBreaks;
// anything else fails with ErrInvalidTieBreakSelection. Declaration happens
// at most once per election.
func (t *Resolver) Declare(election *types.Election, tieBreaks map[string]string) (*types.ResultSet, error) {
	if election.Status != types.ElectionStatusCompleted {
		return nil, fmt.Errorf("%w: cannot declare results while %s",
			types.ErrInvalidTransition, election.Status)
	}
	if _, err := t.store.Results(election.ID); err == nil {
		return nil, types.ErrResultsAlreadyDeclared
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	report, err := t.Compute(election)
	if err != nil {
		return nil, err
	}
	for pos, tied := range report.TiedCandidates {
		winner, ok := tieBreaks[pos]
		if !ok {
			return nil, fmt.Errorf("%w: position %q is tied and has no selection",
				types.ErrInvalidTieBreakSelection, pos)
		}
		if !contains(tied, winner) {
			return nil, fmt.Errorf("%w: %q is not among the tied candidates for %q",
				types.ErrInvalidTieBreakSelection, winner, pos)
		}
	}
	for pos := range tieBreaks {
		if _, isTied := report.TiedCandidates[pos]; !isTied {
			return nil, fmt.Errorf("%w: position %q is not tied",
				types.ErrInvalidTieBreakSelection, pos)
		}
	}

	// apply the tie-break selections: the chosen winner ranks first
	for i := range report.Positions {
		pr := &report.Positions[i]
		if winner, ok := tieBreaks[pr.Position]; ok {
			promote(pr.Ranking, winner)
			pr.Tied = false
		}
	}

	voteLog, err := t.store.VoteLog(election.ID)
	if err != nil {
		return nil, err
	}
	rs := &types.ResultSet{
		ElectionID:  election.ID,
		DeclaredAt:  time.Now(),
		TotalVotes:  report.TotalVotes,
		TotalVoters: report.TotalVoters,
		Positions:   report.Positions,
		VoteLog:     voteLog,
	}
	if err := t.store.SetResults(rs); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, types.ErrResultsAlreadyDeclared
		}
		return nil, err
	}
	log.Infow("results declared",
		"electionId", election.ID.String(),
		"totalVotes", rs.TotalVotes,
		"totalVoters", rs.TotalVoters,
		"tieBreaks", len(tieBreaks))
	return rs, nil
}

// Results returns the declared result set of an election, or
// storage.ErrNotFound if none has been declared yet.
func (t *Resolver) Results(electionID types.HexBytes) (*types.ResultSet, error) {
	return t.store.Results(electionID)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// promote moves the named candidate to the front of its equal-count block.
func promote(ranking []types.ResultEntry, winner string) {
	for i, entry := range ranking {
		if entry.CandidateID == winner {
			for j := i; j > 0 && ranking[j-1].Votes == entry.Votes; j-- {
				ranking[j], ranking[j-1] = ranking[j-1], ranking[j]
			}
			return
		}
	}
}
