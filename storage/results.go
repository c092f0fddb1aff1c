package storage

import (
	"fmt"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// SetResults stores the declared result set for an election. Results freeze
// on first write: a second declaration attempt gets ErrConflict.
func (s *Storage) SetResults(rs *types.ResultSet) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	exists, err := s.hasArtifact(resultsPrefix, rs.ElectionID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: results already declared", ErrConflict)
	}
	return s.setArtifact(resultsPrefix, rs.ElectionID, rs)
}

// Results retrieves the declared result set for an election. Returns
// ErrNotFound if no results have been declared.
func (s *Storage) Results(electionID types.HexBytes) (*types.ResultSet, error) {
	rs := &types.ResultSet{}
	if err := s.getArtifact(resultsPrefix, electionID, rs); err != nil {
		return nil, err
	}
	return rs, nil
}
