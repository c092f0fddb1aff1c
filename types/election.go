package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ElectionStatus is the lifecycle state of an election. Transitions are
// monotonic: Upcoming -> Ongoing -> Completed, never backwards.
type ElectionStatus uint8

const (
	ElectionStatusUpcoming ElectionStatus = iota
	ElectionStatusOngoing
	ElectionStatusCompleted
)

func (s ElectionStatus) String() string {
	switch s {
	case ElectionStatusUpcoming:
		return "upcoming"
	case ElectionStatusOngoing:
		return "ongoing"
	case ElectionStatusCompleted:
		return "completed"
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// MarshalJSON encodes the status as its string form.
func (s ElectionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the string form produced by MarshalJSON.
func (s *ElectionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "upcoming":
		*s = ElectionStatusUpcoming
	case "ongoing":
		*s = ElectionStatusOngoing
	case "completed":
		*s = ElectionStatusCompleted
	default:
		return fmt.Errorf("invalid election status: %q", str)
	}
	return nil
}

// Candidate is a contender for one position of an election. Only approved
// candidates appear on the ballot.
type Candidate struct {
	ID       string `json:"id"       cbor:"0,keyasint"`
	Name     string `json:"name"     cbor:"1,keyasint,omitempty"`
	Approved bool   `json:"approved" cbor:"2,keyasint,omitempty"`
}

// Position is one contested seat of an election, with its ordered candidate
// list.
type Position struct {
	Name       string      `json:"name"       cbor:"0,keyasint"`
	Candidates []Candidate `json:"candidates" cbor:"1,keyasint,omitempty"`
}

// Election holds the full election record as persisted. The status field is
// only ever mutated through the state machine's conditional update.
type Election struct {
	ID                 HexBytes       `json:"id"                 cbor:"0,keyasint"`
	Title              string         `json:"title"              cbor:"1,keyasint,omitempty"`
	Description        string         `json:"description"        cbor:"2,keyasint,omitempty"`
	StartTime          time.Time      `json:"startTime"          cbor:"3,keyasint"`
	EndTime            time.Time      `json:"endTime"            cbor:"4,keyasint"`
	Status             ElectionStatus `json:"status"             cbor:"5,keyasint"`
	AutoDeclareResults bool           `json:"autoDeclareResults" cbor:"6,keyasint,omitempty"`
	Positions          []Position     `json:"positions"          cbor:"7,keyasint,omitempty"`
}

func (e *Election) String() string {
	data, err := json.Marshal(e)
	if err != nil {
		return ""
	}
	return string(data)
}

// Position returns the contested position with the given name, or nil.
func (e *Election) Position(name string) *Position {
	for i := range e.Positions {
		if e.Positions[i].Name == name {
			return &e.Positions[i]
		}
	}
	return nil
}

// ApprovedCandidate reports whether candidateID is an approved candidate for
// the named position.
func (p *Position) ApprovedCandidate(candidateID string) bool {
	for _, c := range p.Candidates {
		if c.ID == candidateID && c.Approved {
			return true
		}
	}
	return false
}

// EncryptionKeys is the per-election keypair as persisted. The private key
// never leaves the storage layer except for the vote integrity check.
type EncryptionKeys struct {
	PublicKeyPEM  []byte `json:"publicKeyPem"  cbor:"0,keyasint"`
	PrivateKeyDER []byte `json:"-"             cbor:"1,keyasint"`
}
