package storage

import (
	"fmt"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// SetEncryptionKeys stores the encryption keypair for an election. A keypair
// is written once at election creation and never rotated; overwriting an
// existing keypair is refused since it would invalidate already-cast votes.
func (s *Storage) SetEncryptionKeys(electionID types.HexBytes, keys *types.EncryptionKeys) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	exists, err := s.hasArtifact(encryptionKeyPrefix, electionID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: encryption keys already set", ErrConflict)
	}
	return s.setArtifact(encryptionKeyPrefix, electionID, keys)
}

// EncryptionKeys loads the encryption keypair for an election. Returns
// ErrNotFound if the keys do not exist.
func (s *Storage) EncryptionKeys(electionID types.HexBytes) (*types.EncryptionKeys, error) {
	keys := &types.EncryptionKeys{}
	if err := s.getArtifact(encryptionKeyPrefix, electionID, keys); err != nil {
		return nil, fmt.Errorf("could not read encryption keys: %w", err)
	}
	return keys, nil
}
