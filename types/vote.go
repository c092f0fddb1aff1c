package types

import "time"

// OTPSession is a single one-time-code issuance for a (voter, election)
// pair. The code itself is never stored, only its bcrypt hash. A session is
// terminal once consumed or expired.
type OTPSession struct {
	Voter      string    `json:"voter"      cbor:"0,keyasint"`
	ElectionID HexBytes  `json:"electionId" cbor:"1,keyasint"`
	CodeHash   []byte    `json:"-"          cbor:"2,keyasint"`
	IssuedAt   time.Time `json:"issuedAt"   cbor:"3,keyasint"`
	ExpiresAt  time.Time `json:"expiresAt"  cbor:"4,keyasint"`
	Consumed   bool      `json:"consumed"   cbor:"5,keyasint,omitempty"`
}

// BallotGrant is the short-lived ballot access granted by a successful OTP
// verification. It is single-use: casting a full ballot consumes it.
type BallotGrant struct {
	Token      string    `json:"token"      cbor:"0,keyasint"`
	Voter      string    `json:"voter"      cbor:"1,keyasint"`
	ElectionID HexBytes  `json:"electionId" cbor:"2,keyasint"`
	IssuedAt   time.Time `json:"issuedAt"   cbor:"3,keyasint"`
	ExpiresAt  time.Time `json:"expiresAt"  cbor:"4,keyasint"`
	Consumed   bool      `json:"consumed"   cbor:"5,keyasint,omitempty"`
}

// Selection is one per-position entry of a submitted ballot: the plaintext
// candidate choice plus the same choice encrypted under the election public
// key. Ciphertext travels base64-encoded on the wire.
type Selection struct {
	Position    string `json:"position"`
	CandidateID string `json:"candidateId"`
	Ciphertext  []byte `json:"ciphertext"`
}

// VoteRecord is the immutable persisted form of one accepted per-position
// vote. It keeps the voter linkage; that linkage is never exposed in any
// published view.
type VoteRecord struct {
	Voter       string    `json:"-"           cbor:"0,keyasint"`
	ElectionID  HexBytes  `json:"electionId"  cbor:"1,keyasint"`
	Position    string    `json:"position"    cbor:"2,keyasint"`
	CandidateID string    `json:"candidateId" cbor:"3,keyasint"`
	Ciphertext  []byte    `json:"ciphertext"  cbor:"4,keyasint"`
	Sequence    uint64    `json:"sequence"    cbor:"5,keyasint"`
	ReceiptHash HexBytes  `json:"receiptHash" cbor:"6,keyasint"`
	CastAt      time.Time `json:"castAt"      cbor:"7,keyasint"`
}

// Receipt is the voter-held proof that one per-position vote was accepted.
// It carries no voter identity.
type Receipt struct {
	Position    string    `json:"position"`
	VoteID      uint64    `json:"voteId"`
	ReceiptHash HexBytes  `json:"receiptHash"`
	Timestamp   time.Time `json:"timestamp"`
}

// VoteLogEntry is the anonymized form of a vote record kept for publication:
// sequence number, receipt hash and timestamp only, deliberately severed
// from the voter.
type VoteLogEntry struct {
	Sequence    uint64    `json:"sequence"    cbor:"0,keyasint"`
	ReceiptHash HexBytes  `json:"receiptHash" cbor:"1,keyasint"`
	Timestamp   time.Time `json:"timestamp"   cbor:"2,keyasint"`
}

// ResultEntry is the frozen aggregate count of one candidate in one position.
type ResultEntry struct {
	CandidateID   string `json:"candidateId"   cbor:"0,keyasint"`
	CandidateName string `json:"candidateName" cbor:"1,keyasint,omitempty"`
	Votes         uint64 `json:"votes"         cbor:"2,keyasint"`
}

// PositionResult holds the ranked entries of one contested position.
type PositionResult struct {
	Position string        `json:"position" cbor:"0,keyasint"`
	Ranking  []ResultEntry `json:"ranking"  cbor:"1,keyasint,omitempty"`
	Tied     bool          `json:"tied"     cbor:"2,keyasint,omitempty"`
}

// ResultSet is the published outcome of one election. Written exactly once.
type ResultSet struct {
	ElectionID  HexBytes         `json:"electionId"  cbor:"0,keyasint"`
	DeclaredAt  time.Time        `json:"declaredAt"  cbor:"1,keyasint"`
	TotalVotes  uint64           `json:"totalVotes"  cbor:"2,keyasint"`
	TotalVoters uint64           `json:"totalVoters" cbor:"3,keyasint"`
	Positions   []PositionResult `json:"positions"   cbor:"4,keyasint,omitempty"`
	VoteLog     []VoteLogEntry   `json:"voteRecords" cbor:"5,keyasint,omitempty"`
}
