package tally

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/util"
)

func testElection(status types.ElectionStatus) *types.Election {
	return &types.Election{
		ID:        util.RandomBytes(16),
		Title:     "Student Council",
		StartTime: time.Now().Add(-2 * time.Hour),
		EndTime:   time.Now().Add(-time.Hour),
		Status:    status,
		Positions: []types.Position{
			{Name: "President", Candidates: []types.Candidate{
				{ID: "alice", Name: "Alice", Approved: true},
				{ID: "bob", Name: "Bob", Approved: true},
			}},
		},
	}
}

// castVotes records one vote per voter for the given candidate, going
// through the regular grant + submission path.
func castVotes(c *qt.C, st *storage.Storage, e *types.Election, candidate string, voters []string) {
	for _, voter := range voters {
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
}

func TestComputeAndRanking(t *testing.T) {
	c := qt.New(t)
	st := storage.New(metadb.NewTest(t))
	e := testElection(types.ElectionStatusCompleted)
	c.Assert(st.SetElection(e), qt.IsNil)

	castVotes(c, st, e, "alice", []string{"v1", "v2", "v3"})
	castVotes(c, st, e, "bob", []string{"v4"})

	r := NewResolver(st)
	report, err := r.Compute(e)
	c.Assert(err, qt.IsNil)
	c.Assert(report.TotalVotes, qt.Equals, uint64(4))
	c.Assert(report.TotalVoters, qt.Equals, uint64(4))
	c.Assert(report.HasTies(), qt.IsFalse)
	c.Assert(report.Positions[0].Ranking[0].CandidateID, qt.Equals, "alice")
	c.Assert(report.Positions[0].Ranking[0].Votes, qt.Equals, uint64(3))
	c.Assert(report.Positions[0].Ranking[1].CandidateID, qt.Equals, "bob")
}

func TestZeroVotesIsNotATie(t *testing.T) {
	c := qt.New(t)
	st := storage.New(metadb.NewTest(t))
	e := testElection(types.ElectionStatusCompleted)
	c.Assert(st.SetElection(e), qt.IsNil)

	report, err := NewResolver(st).Compute(e)
	c.Assert(err, qt.IsNil)
	c.Assert(report.HasTies(), qt.IsFalse)
	c.Assert(report.Positions[0].Ranking, qt.HasLen, 2)
	c.Assert(report.Positions[0].Ranking[0].Votes, qt.Equals, uint64(0))
}

// Three votes for Alice, three for Bob: declaration without a tie-break
// must fail; with Bob selected it succeeds and ranks Bob first.
func TestTieBreakFlow(t *testing.T) {
	c := qt.New(t)
	st := storage.New(metadb.NewTest(t))
	e := testElection(types.ElectionStatusCompleted)
	c.Assert(st.SetElection(e), qt.IsNil)

	castVotes(c, st, e, "alice", []string{"v1", "v2", "v3"})
	castVotes(c, st, e, "bob", []string{"v4", "v5", "v6"})

	r := NewResolver(st)
	report, err := r.Compute(e)
	c.Assert(err, qt.IsNil)
	c.Assert(report.HasTies(), qt.IsTrue)
	c.Assert(report.TiedCandidates["President"], qt.DeepEquals, []string{"alice", "bob"})

	// no selection for the tied position
	_, err = r.Declare(e, nil)
	c.Assert(err, qt.ErrorIs, types.ErrInvalidTieBreakSelection)

	// a winner outside the tied set
	_, err = r.Declare(e, map[string]string{"President": "carol"})
	c.Assert(err, qt.ErrorIs, types.ErrInvalidTieBreakSelection)

	// a tie-break for a position that is not tied
	_, err = r.Declare(e, map[string]string{"President": "bob", "Secretary": "bob"})
	c.Assert(err, qt.ErrorIs, types.ErrInvalidTieBreakSelection)

	rs, err := r.Declare(e, map[string]string{"President": "bob"})
	c.Assert(err, qt.IsNil)
	c.Assert(rs.Positions[0].Ranking[0].CandidateID, qt.Equals, "bob")
	c.Assert(rs.Positions[0].Ranking[0].Votes, qt.Equals, uint64(3))
	c.Assert(rs.Positions[0].Tied, qt.IsFalse)
	c.Assert(rs.TotalVotes, qt.Equals, uint64(6))
	c.Assert(rs.VoteLog, qt.HasLen, 6)

	// results froze: re-declaration fails
	_, err = r.Declare(e, map[string]string{"President": "alice"})
	c.Assert(err, qt.ErrorIs, types.ErrResultsAlreadyDeclared)

	got, err := r.Results(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Positions[0].Ranking[0].CandidateID, qt.Equals, "bob")
}

func TestDeclareRequiresCompletedElection(t *testing.T) {
	c := qt.New(t)
	st := storage.New(metadb.NewTest(t))
	e := testElection(types.ElectionStatusOngoing)
	c.Assert(st.SetElection(e), qt.IsNil)

	_, err := NewResolver(st).Declare(e, nil)
	c.Assert(err, qt.ErrorIs, types.ErrInvalidTransition)
}
