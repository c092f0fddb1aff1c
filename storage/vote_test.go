package storage

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/util"
)

func grantFor(st *Storage, c *qt.C, electionID types.HexBytes, voter string) *types.BallotGrant {
	g := &types.BallotGrant{
		Token:      util.RandomHex(16),
		Voter:      voter,
		ElectionID: electionID,
		IssuedAt:   time.Now(),
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}
	c.Assert(st.SetBallotGrant(g), qt.IsNil)
	return g
}

func submission(electionID types.HexBytes, voter, token string) *BallotSubmission {
	return &BallotSubmission{
		Voter:      voter,
		ElectionID: electionID,
		GrantToken: token,
		Selections: []types.Selection{
			{Position: "President", CandidateID: "alice", Ciphertext: util.RandomBytes(32)},
			{Position: "Secretary", CandidateID: "carol", Ciphertext: util.RandomBytes(32)},
		},
	}
}

func TestCastBallot(t *testing.T) {
	c := qt.New(t)

	st := New(metadb.NewTest(t))
	id := types.HexBytes(util.RandomBytes(16))
	e := testElection(id)
	c.Assert(st.SetElection(e), qt.IsNil)

	g := grantFor(st, c, id, "voter1")
	sub := submission(id, "voter1", g.Token)

	records, err := st.CastBallot(sub, time.Now())
	c.Assert(err, qt.IsNil)
	c.Assert(records, qt.HasLen, 2)

	// sequence numbers are monotonic and start at 1
	c.Assert(records[0].Sequence, qt.Equals, uint64(1))
	c.Assert(records[1].Sequence, qt.Equals, uint64(2))

	// receipt hashes are distinct and reproducible from the public formula
	c.Assert(records[0].ReceiptHash.String(), qt.Not(qt.Equals), records[1].ReceiptHash.String())
	for _, rec := range records {
		c.Assert([]byte(rec.ReceiptHash), qt.DeepEquals, receiptHash(rec.Ciphertext, rec.Sequence, id))
	}

	// voter has a complete record set now
	voted, err := st.HasVoted(e, "voter1")
	c.Assert(err, qt.IsNil)
	c.Assert(voted, qt.IsTrue)

	// the grant was consumed with the ballot
	got, err := st.BallotGrant(id, "voter1")
	c.Assert(err, qt.IsNil)
	c.Assert(got.Consumed, qt.IsTrue)

	// second submission of the identical ballot is rejected whole
	_, err = st.CastBallot(sub, time.Now())
	c.Assert(err, qt.ErrorIs, types.ErrAlreadyVoted)

	// still exactly two records and two log entries
	votes, err := st.VotesByElection(id)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.HasLen, 2)
	entries, err := st.VoteLog(id)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 2)
}

func TestCastBallotGrantChecks(t *testing.T) {
	c := qt.New(t)

	st := New(metadb.NewTest(t))
	id := types.HexBytes(util.RandomBytes(16))
	c.Assert(st.SetElection(testElection(id)), qt.IsNil)

	// no grant at all
	_, err := st.CastBallot(submission(id, "voter1", "whatever"), time.Now())
	c.Assert(err, qt.ErrorIs, types.ErrBallotAccessDenied)

	// wrong token
	g := grantFor(st, c, id, "voter1")
	_, err = st.CastBallot(submission(id, "voter1", "not-the-token"), time.Now())
	c.Assert(err, qt.ErrorIs, types.ErrBallotAccessDenied)

	// expired grant
	g.ExpiresAt = time.Now().Add(-time.Minute)
	c.Assert(st.SetBallotGrant(g), qt.IsNil)
	_, err = st.CastBallot(submission(id, "voter1", g.Token), time.Now())
	c.Assert(err, qt.ErrorIs, types.ErrBallotAccessDenied)

	// nothing was persisted by the failed attempts
	votes, err := st.VotesByElection(id)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.HasLen, 0)
}

func TestVoteLogAnonymity(t *testing.T) {
	c := qt.New(t)

	st := New(metadb.NewTest(t))
	id := types.HexBytes(util.RandomBytes(16))
	e := testElection(id)
	c.Assert(st.SetElection(e), qt.IsNil)

	for _, voter := range []string{"voter1", "voter2", "voter3"} {
		g := grantFor(st, c, id, voter)
		_, err := st.CastBallot(submission(id, voter, g.Token), time.Now())
		c.Assert(err, qt.IsNil)
	}

	entries, err := st.VoteLog(id)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 6)

	// ordered by sequence, carrying hash and timestamp only
	for i, entry := range entries {
		c.Assert(entry.Sequence, qt.Equals, uint64(i+1))
		c.Assert(entry.ReceiptHash, qt.Not(qt.HasLen), 0)
		c.Assert(entry.Timestamp.IsZero(), qt.IsFalse)
	}
}

func TestConsumeOTPSession(t *testing.T) {
	c := qt.New(t)

	st := New(metadb.NewTest(t))
	id := types.HexBytes(util.RandomBytes(16))

	_, err := st.OTPSession(id, "voter1")
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	sess := &types.OTPSession{
		Voter:      "voter1",
		ElectionID: id,
		CodeHash:   util.RandomBytes(60),
		IssuedAt:   time.Now(),
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}
	c.Assert(st.SetOTPSession(sess), qt.IsNil)

	// check callback rejections propagate without consuming
	err = st.ConsumeOTPSession(id, "voter1", func(*types.OTPSession) error {
		return types.ErrInvalidOTP
	})
	c.Assert(err, qt.ErrorIs, types.ErrInvalidOTP)
	got, err := st.OTPSession(id, "voter1")
	c.Assert(err, qt.IsNil)
	c.Assert(got.Consumed, qt.IsFalse)

	// successful check consumes
	err = st.ConsumeOTPSession(id, "voter1", func(*types.OTPSession) error { return nil })
	c.Assert(err, qt.IsNil)
	got, err = st.OTPSession(id, "voter1")
	c.Assert(err, qt.IsNil)
	c.Assert(got.Consumed, qt.IsTrue)
}
