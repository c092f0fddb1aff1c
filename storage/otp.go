package storage

import (
	"time"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// pairKey derives the storage key for a (voter, election) pair. Keying by
// the pair gives the "at most one unconsumed session per pair" invariant for
// free: a new issuance simply replaces whatever session was there.
func pairKey(electionID types.HexBytes, voter string) []byte {
	return append(append([]byte{}, electionID...), hashKey([]byte(voter))...)
}

// SetOTPSession stores a one-time-code session for a (voter, election) pair,
// replacing (and thereby invalidating) any previous session for the pair.
func (s *Storage) SetOTPSession(sess *types.OTPSession) error {
	return s.setArtifact(otpSessionPrefix, pairKey(sess.ElectionID, sess.Voter), sess)
}

// OTPSession retrieves the current session for a (voter, election) pair.
func (s *Storage) OTPSession(electionID types.HexBytes, voter string) (*types.OTPSession, error) {
	sess := &types.OTPSession{}
	if err := s.getArtifact(otpSessionPrefix, pairKey(electionID, voter), sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ConsumeOTPSession atomically verifies and consumes the session for a
// (voter, election) pair. The check callback receives the stored session and
// decides whether it is acceptable; only when it returns nil is the session
// marked consumed. Verification and consumption happen under the same lock,
// so a second concurrent attempt against the same session always observes it
// consumed: there is no check/use gap to replay through.
func (s *Storage) ConsumeOTPSession(electionID types.HexBytes, voter string, check func(*types.OTPSession) error) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	key := pairKey(electionID, voter)
	sess := &types.OTPSession{}
	if err := s.getArtifact(otpSessionPrefix, key, sess); err != nil {
		return err
	}
	if err := check(sess); err != nil {
		return err
	}
	sess.Consumed = true
	return s.setArtifact(otpSessionPrefix, key, sess)
}

// SetBallotGrant stores the ballot access grant for a (voter, election)
// pair, replacing any previous grant for the pair.
func (s *Storage) SetBallotGrant(g *types.BallotGrant) error {
	return s.setArtifact(grantPrefix, pairKey(g.ElectionID, g.Voter), g)
}

// BallotGrant retrieves the grant for a (voter, election) pair.
func (s *Storage) BallotGrant(electionID types.HexBytes, voter string) (*types.BallotGrant, error) {
	g := &types.BallotGrant{}
	if err := s.getArtifact(grantPrefix, pairKey(electionID, voter), g); err != nil {
		return nil, err
	}
	return g, nil
}

// grantUsable reports whether a grant authorizes a ballot submission now.
func grantUsable(g *types.BallotGrant, token string, now time.Time) bool {
	return g.Token == token && !g.Consumed && now.Before(g.ExpiresAt)
}
