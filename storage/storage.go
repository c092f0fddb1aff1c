// Package storage persists every durable artifact of the election core in a
// prefixed key-value store. The following prefixes are used:
//   - 'e/' for elections
//   - 'k/' for election encryption keypairs
//   - 'o/' for one-time-code sessions
//   - 'g/' for ballot access grants
//   - 'v/' for vote records (voter-linked, never published)
//   - 'q/' for per-election vote sequence counters
//   - 'l/' for the anonymized vote log (sequence, receipt hash, timestamp)
//   - 'r/' for declared result sets
//
// All cross-key invariants (one vote per voter per position, one result set
// per election, conditional status updates) are enforced here, under a
// single lock around read-modify-write transactions, so callers never need
// in-process coordination of their own.
package storage

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	// Prefixes for the keys in the database.
	electionPrefix      = []byte("e/")
	encryptionKeyPrefix = []byte("k/")
	otpSessionPrefix    = []byte("o/")
	grantPrefix         = []byte("g/")
	votePrefix          = []byte("v/")
	voteSeqPrefix       = []byte("q/")
	voteLogPrefix       = []byte("l/")
	resultsPrefix       = []byte("r/")
)

const (
	// maxKeySize is the number of hash bytes kept when deriving fixed-size
	// key suffixes from variable-length identifiers.
	maxKeySize = 12
)

var (
	// ErrNotFound is returned when the requested artifact does not exist.
	ErrNotFound = errors.New("artifact not found")
	// ErrConflict is returned when a conditional write loses: the stored
	// artifact is not in the state the caller required.
	ErrConflict = errors.New("conditional write conflict")
)

// Storage wraps the key-value database with the election core's persistence
// operations.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
}

// New creates a new Storage instance on top of the given database.
func New(database db.Database) *Storage {
	return &Storage{db: database}
}

// Close closes the storage.
func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		panic(err)
	}
}

// Artifact encoding/decoding
func encodeArtifact(a any) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return em.Marshal(a)
}

func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

func hashKey(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:maxKeySize]
}

// setArtifact encodes and stores an artifact under the given prefix and key.
func (s *Storage) setArtifact(prefix, key []byte, artifact any) error {
	val, err := encodeArtifact(artifact)
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, val); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// getArtifact retrieves and decodes an artifact into out. It returns
// ErrNotFound if the key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	rd := prefixeddb.NewPrefixedReader(s.db, prefix)
	data, err := rd.Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return decodeArtifact(data, out)
}

// hasArtifact reports whether a key exists under the given prefix.
func (s *Storage) hasArtifact(prefix, key []byte) (bool, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, prefix)
	if _, err := rd.Get(key); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// deleteArtifact removes an artifact from the storage.
func (s *Storage) deleteArtifact(prefix, key []byte) error {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Delete(key); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// listArtifactKeys returns all keys stored under the given prefix.
func (s *Storage) listArtifactKeys(prefix []byte) ([][]byte, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, prefix)
	var keys [][]byte
	if err := rd.Iterate(nil, func(k, _ []byte) bool {
		key := make([]byte, len(k))
		copy(key, k)
		keys = append(keys, key)
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate %q: %w", prefix, err)
	}
	return keys, nil
}
