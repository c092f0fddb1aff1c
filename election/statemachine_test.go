package election

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/tally"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/util"
)

func testSetup(t *testing.T, start, end time.Time, autoDeclare bool) (*StateMachine, *storage.Storage, *types.Election) {
	c := qt.New(t)
	st := storage.New(metadb.NewTest(t))
	e := &types.Election{
		ID:                 util.RandomBytes(16),
		Title:              "Student Council",
		StartTime:          start,
		EndTime:            end,
		Status:             types.ElectionStatusUpcoming,
		AutoDeclareResults: autoDeclare,
		Positions: []types.Position{
			{Name: "President", Candidates: []types.Candidate{
				{ID: "alice", Name: "Alice", Approved: true},
				{ID: "bob", Name: "Bob", Approved: true},
			}},
		},
	}
	c.Assert(st.SetElection(e), qt.IsNil)
	return NewStateMachine(st, tally.NewResolver(st)), st, e
}

func castVote(c *qt.C, st *storage.Storage, e *types.Election, voter, candidate string) {
	g := &types.BallotGrant{
		Token:      util.RandomHex(16),
		Voter:      voter,
		ElectionID: e.ID,
		IssuedAt:   time.Now(),
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}
	c.Assert(st.SetBallotGrant(g), qt.IsNil)
	_, err := st.CastBallot(&storage.BallotSubmission{
		Voter:      voter,
		ElectionID: e.ID,
		GrantToken: g.Token,
		Selections: []types.Selection{
			{Position: "President", CandidateID: candidate, Ciphertext: util.RandomBytes(32)},
		},
	}, time.Now())
	c.Assert(err, qt.IsNil)
}

func TestLifecycle(t *testing.T) {
	c := qt.New(t)
	sm, _, e := testSetup(t, time.Now().Add(-time.Hour), time.Now().Add(-time.Minute), false)

	// start once the scheduled time passed
	got, err := sm.Start(e.ID, false)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Status, qt.Equals, types.ElectionStatusOngoing)

	// a second start is an invalid transition
	_, err = sm.Start(e.ID, false)
	c.Assert(err, qt.ErrorIs, types.ErrInvalidTransition)

	got, err = sm.End(e.ID, false)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Status, qt.Equals, types.ElectionStatusCompleted)

	// transitions are monotonic: no way back, no re-end
	_, err = sm.End(e.ID, false)
	c.Assert(err, qt.ErrorIs, types.ErrInvalidTransition)
	_, err = sm.Start(e.ID, false)
	c.Assert(err, qt.ErrorIs, types.ErrInvalidTransition)
}

func TestForceFlags(t *testing.T) {
	c := qt.New(t)
	sm, _, e := testSetup(t, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour), false)

	// before the scheduled start, only force works
	_, err := sm.Start(e.ID, false)
	c.Assert(err, qt.ErrorIs, types.ErrInvalidTransition)
	_, err = sm.Start(e.ID, true)
	c.Assert(err, qt.IsNil)

	// before the scheduled end, only force works
	_, err = sm.End(e.ID, false)
	c.Assert(err, qt.ErrorIs, types.ErrInvalidTransition)
	_, err = sm.End(e.ID, true)
	c.Assert(err, qt.IsNil)
}

func TestEndAutoDeclares(t *testing.T) {
	c := qt.New(t)
	sm, st, e := testSetup(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), true)

	_, err := sm.Start(e.ID, false)
	c.Assert(err, qt.IsNil)
	castVote(c, st, e, "v1", "alice")
	castVote(c, st, e, "v2", "alice")
	castVote(c, st, e, "v3", "bob")

	_, err = sm.End(e.ID, true)
	c.Assert(err, qt.IsNil)

	rs, err := st.Results(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(rs.Positions[0].Ranking[0].CandidateID, qt.Equals, "alice")
	c.Assert(rs.TotalVotes, qt.Equals, uint64(3))
}

// A tie must block automatic declaration even with autoDeclareResults set.
func TestTieBlocksAutoDeclare(t *testing.T) {
	c := qt.New(t)
	sm, st, e := testSetup(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), true)

	_, err := sm.Start(e.ID, false)
	c.Assert(err, qt.IsNil)
	castVote(c, st, e, "v1", "alice")
	castVote(c, st, e, "v2", "bob")

	_, err = sm.End(e.ID, true)
	c.Assert(err, qt.IsNil)

	// no published result set until a manual declaration resolves the tie
	_, err = st.Results(e.ID)
	c.Assert(errors.Is(err, storage.ErrNotFound), qt.IsTrue)

	got, err := st.Election(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Status, qt.Equals, types.ElectionStatusCompleted)
}

func TestAutoDeclareDisabled(t *testing.T) {
	c := qt.New(t)
	sm, st, e := testSetup(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), false)

	_, err := sm.Start(e.ID, false)
	c.Assert(err, qt.IsNil)
	castVote(c, st, e, "v1", "alice")

	_, err = sm.End(e.ID, true)
	c.Assert(err, qt.IsNil)

	// manual declaration required regardless of ties
	_, err = st.Results(e.ID)
	c.Assert(errors.Is(err, storage.ErrNotFound), qt.IsTrue)
}
