package ballot

import (
	"crypto/rsa"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/crypto/ballotenc"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/util"
)

func testSetup(t *testing.T) (*Intake, *storage.Storage, *types.Election, *rsa.PrivateKey) {
	c := qt.New(t)
	st := storage.New(metadb.NewTest(t))

	election := &types.Election{
		ID:        util.RandomBytes(16),
		Title:     "Student Council",
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now().Add(time.Hour),
		Status:    types.ElectionStatusOngoing,
		Positions: []types.Position{
			{Name: "President", Candidates: []types.Candidate{
				{ID: "alice", Name: "Alice", Approved: true},
				{ID: "bob", Name: "Bob", Approved: true},
				{ID: "mallory", Name: "Mallory", Approved: false},
			}},
			{Name: "Secretary", Candidates: []types.Candidate{
				{ID: "carol", Name: "Carol", Approved: true},
			}},
		},
	}
	c.Assert(st.SetElection(election), qt.IsNil)

	key, err := ballotenc.GenerateKey()
	c.Assert(err, qt.IsNil)
	pubPEM, err := ballotenc.MarshalPublicKey(&key.PublicKey)
	c.Assert(err, qt.IsNil)
	privDER, err := ballotenc.MarshalPrivateKey(key)
	c.Assert(err, qt.IsNil)
	c.Assert(st.SetEncryptionKeys(election.ID, &types.EncryptionKeys{
		PublicKeyPEM:  pubPEM,
		PrivateKeyDER: privDER,
	}), qt.IsNil)

	return NewIntake(st), st, election, key
}

func grantFor(c *qt.C, st *storage.Storage, election *types.Election, voter string) string {
	g := &types.BallotGrant{
		Token:      util.RandomHex(16),
		Voter:      voter,
		ElectionID: election.ID,
		IssuedAt:   time.Now(),
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}
	c.Assert(st.SetBallotGrant(g), qt.IsNil)
	return g.Token
}

func encryptSelection(c *qt.C, pub *rsa.PublicKey, position, candidate string) types.Selection {
	ct, err := ballotenc.Encrypt(pub, []byte(candidate))
	c.Assert(err, qt.IsNil)
	return types.Selection{Position: position, CandidateID: candidate, Ciphertext: ct}
}

func TestCastCompleteBallot(t *testing.T) {
	c := qt.New(t)
	intake, st, election, key := testSetup(t)
	token := grantFor(c, st, election, "voter1")

	selections := []types.Selection{
		encryptSelection(c, &key.PublicKey, "President", "alice"),
		encryptSelection(c, &key.PublicKey, "Secretary", "carol"),
	}
	receipts, err := intake.Cast("voter1", election, token, selections)
	c.Assert(err, qt.IsNil)
	c.Assert(receipts, qt.HasLen, 2)

	// one receipt per position, each with a distinct hash
	c.Assert(receipts[0].Position, qt.Equals, "President")
	c.Assert(receipts[1].Position, qt.Equals, "Secretary")
	c.Assert(receipts[0].ReceiptHash.String(), qt.Not(qt.Equals), receipts[1].ReceiptHash.String())

	// the published anonymous list contains exactly these hashes
	entries, err := st.VoteLog(election.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 2)
	published := map[string]bool{}
	for _, entry := range entries {
		published[entry.ReceiptHash.String()] = true
	}
	for _, r := range receipts {
		c.Assert(published[r.ReceiptHash.String()], qt.IsTrue)
	}

	// an identical resubmission is idempotently rejected, with or without
	// a fresh grant
	_, err = intake.Cast("voter1", election, token, selections)
	c.Assert(err, qt.ErrorIs, types.ErrAlreadyVoted)

	token2 := grantFor(c, st, election, "voter1")
	_, err = intake.Cast("voter1", election, token2, selections)
	c.Assert(err, qt.ErrorIs, types.ErrAlreadyVoted)
}

func TestCastIncompleteBallot(t *testing.T) {
	c := qt.New(t)
	intake, st, election, key := testSetup(t)
	token := grantFor(c, st, election, "voter1")

	// missing a contested position
	_, err := intake.Cast("voter1", election, token, []types.Selection{
		encryptSelection(c, &key.PublicKey, "President", "alice"),
	})
	c.Assert(err, qt.ErrorIs, types.ErrIncompleteBallot)

	// duplicated position instead of full coverage
	_, err = intake.Cast("voter1", election, token, []types.Selection{
		encryptSelection(c, &key.PublicKey, "President", "alice"),
		encryptSelection(c, &key.PublicKey, "President", "bob"),
	})
	c.Assert(err, qt.ErrorIs, types.ErrIncompleteBallot)

	// unknown position
	_, err = intake.Cast("voter1", election, token, []types.Selection{
		encryptSelection(c, &key.PublicKey, "President", "alice"),
		encryptSelection(c, &key.PublicKey, "Treasurer", "carol"),
	})
	c.Assert(err, qt.ErrorIs, types.ErrIncompleteBallot)

	// write-in / unapproved candidate
	_, err = intake.Cast("voter1", election, token, []types.Selection{
		encryptSelection(c, &key.PublicKey, "President", "mallory"),
		encryptSelection(c, &key.PublicKey, "Secretary", "carol"),
	})
	c.Assert(err, qt.ErrorIs, types.ErrIncompleteBallot)

	// none of the rejections persisted anything
	votes, err := st.VotesByElection(election.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.HasLen, 0)
}

func TestCastIntegrityViolation(t *testing.T) {
	c := qt.New(t)
	intake, st, election, key := testSetup(t)
	token := grantFor(c, st, election, "voter1")

	// ciphertext encrypts bob but the plaintext claims alice
	forged := encryptSelection(c, &key.PublicKey, "President", "bob")
	forged.CandidateID = "alice"
	_, err := intake.Cast("voter1", election, token, []types.Selection{
		forged,
		encryptSelection(c, &key.PublicKey, "Secretary", "carol"),
	})
	c.Assert(err, qt.ErrorIs, types.ErrVoteIntegrityViolation)

	// garbage ciphertext fails the same way
	garbage := types.Selection{Position: "President", CandidateID: "alice", Ciphertext: util.RandomBytes(256)}
	_, err = intake.Cast("voter1", election, token, []types.Selection{
		garbage,
		encryptSelection(c, &key.PublicKey, "Secretary", "carol"),
	})
	c.Assert(err, qt.ErrorIs, types.ErrVoteIntegrityViolation)

	// all-or-nothing: zero records persisted
	votes, err := st.VotesByElection(election.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.HasLen, 0)
}

func TestCastStateGating(t *testing.T) {
	c := qt.New(t)
	intake, st, election, key := testSetup(t)
	token := grantFor(c, st, election, "voter1")
	selections := []types.Selection{
		encryptSelection(c, &key.PublicKey, "President", "alice"),
		encryptSelection(c, &key.PublicKey, "Secretary", "carol"),
	}

	for _, status := range []types.ElectionStatus{
		types.ElectionStatusUpcoming,
		types.ElectionStatusCompleted,
	} {
		election.Status = status
		_, err := intake.Cast("voter1", election, token, selections)
		c.Assert(err, qt.ErrorIs, types.ErrElectionNotOngoing)
		_, err = Assemble(election)
		c.Assert(err, qt.ErrorIs, types.ErrElectionNotOngoing)
	}
	_ = st
}

func TestAssemble(t *testing.T) {
	c := qt.New(t)
	_, _, election, _ := testSetup(t)

	b, err := Assemble(election)
	c.Assert(err, qt.IsNil)
	c.Assert(b.Positions, qt.HasLen, 2)
	// unapproved candidates never make the ballot
	c.Assert(b.Positions[0].Candidates, qt.HasLen, 2)
	c.Assert(b.Positions[0].Candidates[0].ID, qt.Equals, "alice")
	c.Assert(b.Positions[0].Candidates[1].ID, qt.Equals, "bob")
	c.Assert(b.Positions[1].Candidates, qt.HasLen, 1)
}
