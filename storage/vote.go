package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// BallotSubmission is a validated, integrity-checked ballot ready to be
// persisted. The caller (vote intake) has already verified completeness and
// ciphertext integrity; this layer enforces the uniqueness and atomicity
// invariants.
type BallotSubmission struct {
	Voter      string
	ElectionID types.HexBytes
	GrantToken string
	Selections []types.Selection
}

// voteKey derives the unique key for a (election, position, voter) triple.
func voteKey(electionID types.HexBytes, position, voter string) []byte {
	id := append(append([]byte(position), 0x00), []byte(voter)...)
	return append(append([]byte{}, electionID...), hashKey(id)...)
}

func seqBytes(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

// receiptHash derives the voter-verifiable receipt hash for one accepted
// vote: keccak256(ciphertext || sequence || electionID). It binds the
// receipt to the exact ciphertext, never to the voter.
func receiptHash(ciphertext []byte, seq uint64, electionID types.HexBytes) []byte {
	return ethcrypto.Keccak256(ciphertext, seqBytes(seq), electionID)
}

// CastBallot atomically persists one vote record per selection, assigns the
// per-election sequence numbers, appends the anonymized vote log entries and
// consumes the ballot grant. It is all-or-nothing: any failed precondition
// commits zero records. Concurrent duplicate submissions race to exactly one
// winner; the loser gets ErrAlreadyVoted.
func (s *Storage) CastBallot(sub *BallotSubmission, now time.Time) ([]*types.VoteRecord, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	// uniqueness on (voter, election, position) is checked first: a
	// resubmission is a duplicate even though its grant was consumed by
	// the accepted ballot
	for _, sel := range sub.Selections {
		exists, err := s.hasArtifact(votePrefix, voteKey(sub.ElectionID, sel.Position, sub.Voter))
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, types.ErrAlreadyVoted
		}
	}

	// the grant must be valid and unconsumed
	grant := &types.BallotGrant{}
	if err := s.getArtifact(grantPrefix, pairKey(sub.ElectionID, sub.Voter), grant); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, types.ErrBallotAccessDenied
		}
		return nil, err
	}
	if !grantUsable(grant, sub.GrantToken, now) {
		return nil, types.ErrBallotAccessDenied
	}

	seq, err := s.voteSequence(sub.ElectionID)
	if err != nil {
		return nil, err
	}

	// single write transaction for records, log entries, the sequence
	// counter and the grant consumption
	tx := s.db.WriteTx()
	votesTx := prefixeddb.NewPrefixedWriteTx(tx, votePrefix)
	logTx := prefixeddb.NewPrefixedWriteTx(tx, voteLogPrefix)
	seqTx := prefixeddb.NewPrefixedWriteTx(tx, voteSeqPrefix)
	grantTx := prefixeddb.NewPrefixedWriteTx(tx, grantPrefix)

	records := make([]*types.VoteRecord, 0, len(sub.Selections))
	for _, sel := range sub.Selections {
		seq++
		rec := &types.VoteRecord{
			Voter:       sub.Voter,
			ElectionID:  sub.ElectionID,
			Position:    sel.Position,
			CandidateID: sel.CandidateID,
			Ciphertext:  sel.Ciphertext,
			Sequence:    seq,
			ReceiptHash: receiptHash(sel.Ciphertext, seq, sub.ElectionID),
			CastAt:      now,
		}
		val, err := encodeArtifact(rec)
		if err != nil {
			tx.Discard()
			return nil, err
		}
		if err := votesTx.Set(voteKey(sub.ElectionID, sel.Position, sub.Voter), val); err != nil {
			tx.Discard()
			return nil, err
		}
		logVal, err := encodeArtifact(&types.VoteLogEntry{
			Sequence:    rec.Sequence,
			ReceiptHash: rec.ReceiptHash,
			Timestamp:   rec.CastAt,
		})
		if err != nil {
			tx.Discard()
			return nil, err
		}
		if err := logTx.Set(append(append([]byte{}, sub.ElectionID...), seqBytes(seq)...), logVal); err != nil {
			tx.Discard()
			return nil, err
		}
		records = append(records, rec)
	}
	if err := seqTx.Set(sub.ElectionID, seqBytes(seq)); err != nil {
		tx.Discard()
		return nil, err
	}
	grant.Consumed = true
	grantVal, err := encodeArtifact(grant)
	if err != nil {
		tx.Discard()
		return nil, err
	}
	if err := grantTx.Set(pairKey(sub.ElectionID, sub.Voter), grantVal); err != nil {
		tx.Discard()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ballot: %w", err)
	}
	return records, nil
}

// voteSequence returns the last assigned vote sequence number for an
// election (0 if none).
func (s *Storage) voteSequence(electionID types.HexBytes) (uint64, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, voteSeqPrefix)
	data, err := rd.Get(electionID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("malformed sequence counter for %s", electionID)
	}
	return binary.BigEndian.Uint64(data), nil
}

// HasVoted reports whether the voter holds a complete vote record set for
// the election. Submissions are all-or-nothing, so any single record for a
// contested position implies the full set; all positions are still checked.
func (s *Storage) HasVoted(e *types.Election, voter string) (bool, error) {
	if len(e.Positions) == 0 {
		return false, nil
	}
	for _, pos := range e.Positions {
		exists, err := s.hasArtifact(votePrefix, voteKey(e.ID, pos.Name, voter))
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}

// VotesByElection returns every vote record of an election. Only the tally
// reads these; the voter linkage they carry is never exposed over the API.
func (s *Storage) VotesByElection(electionID types.HexBytes) ([]*types.VoteRecord, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, votePrefix)
	var records []*types.VoteRecord
	if err := rd.Iterate(electionID, func(_, v []byte) bool {
		rec := &types.VoteRecord{}
		if err := decodeArtifact(v, rec); err != nil {
			return true
		}
		records = append(records, rec)
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return records, nil
}

// VoteLog returns the anonymized vote log of an election, ordered by
// sequence number.
func (s *Storage) VoteLog(electionID types.HexBytes) ([]types.VoteLogEntry, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, voteLogPrefix)
	var entries []types.VoteLogEntry
	if err := rd.Iterate(electionID, func(_, v []byte) bool {
		var entry types.VoteLogEntry
		if err := decodeArtifact(v, &entry); err != nil {
			return true
		}
		entries = append(entries, entry)
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate vote log: %w", err)
	}
	return entries, nil
}
