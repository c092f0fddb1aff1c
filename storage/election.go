package storage

import (
	"fmt"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// SetElection stores an election record. It is only used at creation time;
// later status mutations must go through UpdateElectionStatus.
func (s *Storage) SetElection(e *types.Election) error {
	if e == nil {
		return fmt.Errorf("nil election")
	}
	if len(e.ID) == 0 {
		return fmt.Errorf("election without ID")
	}
	return s.setArtifact(electionPrefix, e.ID, e)
}

// Election retrieves an election by ID. Returns ErrNotFound if it does not
// exist.
func (s *Storage) Election(id types.HexBytes) (*types.Election, error) {
	e := &types.Election{}
	if err := s.getArtifact(electionPrefix, id, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListElections returns the IDs of all stored elections.
func (s *Storage) ListElections() ([]types.HexBytes, error) {
	keys, err := s.listArtifactKeys(electionPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]types.HexBytes, len(keys))
	for i, k := range keys {
		ids[i] = types.HexBytes(k)
	}
	return ids, nil
}

// UpdateElectionStatus performs a conditional status update: the election
// status moves from "from" to "to" only if it still equals "from" at write
// time. Concurrent transition attempts on the same election serialize here,
// and the loser gets ErrConflict. The updated record is returned.
func (s *Storage) UpdateElectionStatus(id types.HexBytes, from, to types.ElectionStatus) (*types.Election, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	e := &types.Election{}
	if err := s.getArtifact(electionPrefix, id, e); err != nil {
		return nil, err
	}
	if e.Status != from {
		return nil, fmt.Errorf("%w: status is %s, not %s", ErrConflict, e.Status, from)
	}
	e.Status = to
	if err := s.setArtifact(electionPrefix, id, e); err != nil {
		return nil, err
	}
	return e, nil
}
