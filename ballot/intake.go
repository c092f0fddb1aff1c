package ballot

import (
	"fmt"
	"time"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/crypto/ballotenc"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// Intake validates, integrity-checks and durably records encrypted votes.
type Intake struct {
	store *storage.Storage
}

// NewIntake creates a new vote intake over the given storage.
func NewIntake(store *storage.Storage) *Intake {
	return &Intake{store: store}
}

// Cast accepts a complete ballot for a voter holding a valid access grant.
// The submission must cover every contested position exactly once with an
// approved candidate, and every ciphertext must decrypt (under the election
// private key) to its paired candidate identifier. Acceptance is
// all-or-nothing; on success one receipt per position is returned and the
// grant is consumed.
func (in *Intake) Cast(voter string, election *types.Election, grantToken string, selections []types.Selection) ([]*types.Receipt, error) {
	if election.Status != types.ElectionStatusOngoing {
		return nil, types.ErrElectionNotOngoing
	}
	if err := checkCompleteness(election, selections); err != nil {
		return nil, err
	}
	if err := in.checkIntegrity(election, selections); err != nil {
		return nil, err
	}

	records, err := in.store.CastBallot(&storage.BallotSubmission{
		Voter:      voter,
		ElectionID: election.ID,
		GrantToken: grantToken,
		Selections: selections,
	}, time.Now())
	if err != nil {
		return nil, err
	}

	receipts := make([]*types.Receipt, len(records))
	for i, rec := range records {
		receipts[i] = &types.Receipt{
			Position:    rec.Position,
			VoteID:      rec.Sequence,
			ReceiptHash: rec.ReceiptHash,
			Timestamp:   rec.CastAt,
		}
	}
	log.Infow("ballot accepted",
		"electionId", election.ID.String(),
		"positions", len(receipts),
		"firstSequence", records[0].Sequence)
	return receipts, nil
}

// checkCompleteness verifies the selections cover every contested position
// exactly once and name only approved candidates. Partial ballots and
// write-ins are rejected whole.
func checkCompleteness(election *types.Election, selections []types.Selection) error {
	if len(selections) != len(election.Positions) {
		return fmt.Errorf("%w: got %d selections for %d positions",
			types.ErrIncompleteBallot, len(selections), len(election.Positions))
	}
	seen := make(map[string]bool, len(selections))
	for _, sel := range selections {
		pos := election.Position(sel.Position)
		if pos == nil {
			return fmt.Errorf("%w: unknown position %q", types.ErrIncompleteBallot, sel.Position)
		}
		if seen[sel.Position] {
			return fmt.Errorf("%w: duplicate position %q", types.ErrIncompleteBallot, sel.Position)
		}
		seen[sel.Position] = true
		if !pos.ApprovedCandidate(sel.CandidateID) {
			return fmt.Errorf("%w: %q is not an approved candidate for %q",
				types.ErrIncompleteBallot, sel.CandidateID, sel.Position)
		}
		if len(sel.Ciphertext) == 0 {
			return fmt.Errorf("%w: empty ciphertext for %q", types.ErrIncompleteBallot, sel.Position)
		}
	}
	return nil
}

// checkIntegrity decrypts every ciphertext with the election private key
// and asserts it equals the submitted plaintext candidate. A single
// mismatch fails the whole ballot; this is what keeps a tampering client or
// intermediary from splitting the plaintext tally from the receipts.
func (in *Intake) checkIntegrity(election *types.Election, selections []types.Selection) error {
	keys, err := in.store.EncryptionKeys(election.ID)
	if err != nil {
		return fmt.Errorf("load election keys: %w", err)
	}
	priv, err := ballotenc.ParsePrivateKey(keys.PrivateKeyDER)
	if err != nil {
		return fmt.Errorf("parse election private key: %w", err)
	}
	for _, sel := range selections {
		plaintext, err := ballotenc.Decrypt(priv, sel.Ciphertext)
		if err != nil {
			return fmt.Errorf("%w: position %q: undecryptable ciphertext",
				types.ErrVoteIntegrityViolation, sel.Position)
		}
		if string(plaintext) != sel.CandidateID {
			return fmt.Errorf("%w: position %q", types.ErrVoteIntegrityViolation, sel.Position)
		}
	}
	return nil
}
