// Package ballot builds the voter-facing ballot for an election and takes
// in encrypted vote submissions.
package ballot

import (
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// Ballot is the read-only ballot projection handed to voters: per contested
// position, the ordered list of approved candidates. It holds no state of
// its own and is regenerated per request.
type Ballot struct {
	ElectionID types.HexBytes   `json:"electionId"`
	Title      string           `json:"title"`
	Positions  []BallotPosition `json:"positions"`
}

// BallotPosition is one contested position of the ballot.
type BallotPosition struct {
	Name       string            `json:"name"`
	Candidates []BallotCandidate `json:"candidates"`
}

// BallotCandidate is one eligible choice. Only approved candidates appear.
type BallotCandidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assemble projects an election into its ballot. It fails with
// ErrElectionNotOngoing outside the voting window.
func Assemble(election *types.Election) (*Ballot, error) {
	if election.Status != types.ElectionStatusOngoing {
		return nil, types.ErrElectionNotOngoing
	}
	b := &Ballot{
		ElectionID: election.ID,
		Title:      election.Title,
	}
	for _, pos := range election.Positions {
		bp := BallotPosition{Name: pos.Name}
		for _, cand := range pos.Candidates {
			if !cand.Approved {
				continue
			}
			bp.Candidates = append(bp.Candidates, BallotCandidate{ID: cand.ID, Name: cand.Name})
		}
		b.Positions = append(b.Positions, bp)
	}
	return b, nil
}
