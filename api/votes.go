package api

import (
	"encoding/json"
	"net/http"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
)

// requestOTP dispatches a one-time voting code to the authenticated voter
// through the configured channel.
func (a *API) requestOTP(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	voter := requestVoterID(r)
	ttl, err := a.gate.Request(r.Context(), voter, e)
	if err != nil {
		errorToAPI(err).Write(w)
		return
	}
	log.Infow("otp dispatched", "electionId", e.ID.String())
	httpWriteJSON(w, OTPResponse{ExpiresIn: int64(ttl.Seconds())})
}

// verifyOTP exchanges a valid one-time code for a single-use ballot grant.
func (a *API) verifyOTP(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	voter := requestVoterID(r)
	grant, err := a.gate.Verify(voter, e, req.Code)
	if err != nil {
		errorToAPI(err).Write(w)
		return
	}
	httpWriteJSON(w, VerifyOTPResponse{GrantToken: grant.Token})
}

// castVote accepts an encrypted ballot, consumes the grant and returns one
// receipt per position.
func (a *API) castVote(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	var req CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	voter := requestVoterID(r)
	receipts, err := a.intake.Cast(voter, e, req.GrantToken, req.Selections)
	if err != nil {
		errorToAPI(err).Write(w)
		return
	}
	httpWriteJSON(w, CastVoteResponse{Receipts: receipts})
}

// voteStatus reports whether the authenticated voter has already voted.
func (a *API) voteStatus(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	voted, err := a.storage.HasVoted(e, requestVoterID(r))
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, VoteStatusResponse{Voted: voted})
}
