package api

import (
	"time"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// CreateElectionRequest is the admin payload for registering a new election.
type CreateElectionRequest struct {
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	StartTime          time.Time        `json:"startTime"`
	EndTime            time.Time        `json:"endTime"`
	AutoDeclareResults bool             `json:"autoDeclareResults"`
	Positions          []types.Position `json:"positions"`
}

// CreateElectionResponse returns the identifier assigned to a new election
// and the PEM public key voters will encrypt their selections with.
type CreateElectionResponse struct {
	ElectionID   types.HexBytes `json:"electionId"`
	PublicKeyPEM string         `json:"publicKey"`
}

// ElectionSummary is the listing view of an election: the contest shape
// (position names and how many approved candidates run) without the full
// candidate roster, which the ballot endpoint serves.
type ElectionSummary struct {
	ElectionID     types.HexBytes       `json:"electionId"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	StartTime      time.Time            `json:"startTime"`
	EndTime        time.Time            `json:"endTime"`
	Status         types.ElectionStatus `json:"status"`
	Positions      []string             `json:"positions"`
	CandidateCount int                  `json:"candidateCount"`
	HasVoted       bool                 `json:"hasVoted,omitempty"`
}

// ElectionsResponse wraps the election listing.
type ElectionsResponse struct {
	Elections []ElectionSummary `json:"elections"`
}

// PublicKeyResponse carries the election encryption key in PEM form.
type PublicKeyResponse struct {
	PublicKeyPEM string `json:"publicKey"`
}

// OTPResponse reports the validity window of a freshly dispatched code.
type OTPResponse struct {
	ExpiresIn int64 `json:"expiresInSeconds"`
}

// VerifyOTPRequest carries the one-time code typed by the voter.
type VerifyOTPRequest struct {
	Code string `json:"code"`
}

// VerifyOTPResponse returns the ballot grant token on success.
type VerifyOTPResponse struct {
	GrantToken string `json:"grantToken"`
}

// CastVoteRequest is the encrypted ballot submission. Ciphertext bytes
// travel base64 encoded inside each selection.
type CastVoteRequest struct {
	GrantToken string            `json:"grantToken"`
	Selections []types.Selection `json:"selections"`
}

// CastVoteResponse returns one receipt per position voted.
type CastVoteResponse struct {
	Receipts []*types.Receipt `json:"receipts"`
}

// VoteStatusResponse reports whether the authenticated voter has already
// cast a ballot in the election.
type VoteStatusResponse struct {
	Voted bool `json:"voted"`
}

// TransitionRequest is the optional admin payload for lifecycle endpoints.
// Force skips the scheduled time window check.
type TransitionRequest struct {
	Force bool `json:"force"`
}

// DeclareResultsRequest carries explicit tie-break winners, keyed by
// position name. It is empty for elections without ties.
type DeclareResultsRequest struct {
	TieBreaks map[string]string `json:"tieBreaks,omitempty"`
}
