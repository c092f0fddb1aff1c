//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 401, 403, 404 or 409, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXXX or 5XXXX.
// If you notice there's a gap DON'T fill it in, that code was used in the past and shouldn't be reused.
// There's no correlation between Code and HTTP Status.
var (
	ErrResourceNotFound    = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody       = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrUnauthorized        = Error{Code: 40005, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid authentication token")}
	ErrMalformedElectionID = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed election ID")}
	ErrElectionNotFound    = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("election not found")}
	ErrMalformedElection   = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed election definition")}

	ErrElectionNotOngoing  = Error{Code: 40101, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("election is not ongoing")}
	ErrInvalidTransition   = Error{Code: 40102, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("invalid election state transition")}
	ErrInvalidOTP          = Error{Code: 40103, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid one-time code")}
	ErrOTPExpired          = Error{Code: 40104, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("one-time code expired")}
	ErrBallotAccessDenied  = Error{Code: 40105, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("ballot access denied")}
	ErrAlreadyVoted        = Error{Code: 40106, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("vote already cast")}
	ErrIncompleteBallot    = Error{Code: 40107, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("incomplete ballot")}
	ErrVoteIntegrity       = Error{Code: 40108, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("ballot failed integrity verification")}
	ErrInvalidTieBreak     = Error{Code: 40109, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid tie-break selection")}
	ErrResultsNotDeclared  = Error{Code: 40110, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("results not declared")}
	ErrResultsAlreadyExist = Error{Code: 40111, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("results already declared")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrOTPDispatchFailed          = Error{Code: 50003, HTTPstatus: http.StatusServiceUnavailable, Err: fmt.Errorf("could not deliver one-time code")}
)
