package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/otp"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// urlElectionID extracts and decodes the election ID from the request URL.
func urlElectionID(r *http.Request) (types.HexBytes, error) {
	var eid types.HexBytes
	if err := eid.FromString(chi.URLParam(r, ElectionURLParam)); err != nil || len(eid) == 0 {
		return nil, ErrMalformedElectionID
	}
	return eid, nil
}

// errorToAPI maps domain errors to their API counterpart. Unrecognized
// errors become a generic internal server error.
func errorToAPI(err error) Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrElectionNotFound
	case errors.Is(err, types.ErrElectionNotOngoing):
		return ErrElectionNotOngoing
	case errors.Is(err, types.ErrInvalidTransition):
		return ErrInvalidTransition
	case errors.Is(err, types.ErrInvalidOTP):
		return ErrInvalidOTP
	case errors.Is(err, types.ErrOTPExpired):
		return ErrOTPExpired
	case errors.Is(err, types.ErrBallotAccessDenied):
		return ErrBallotAccessDenied
	case errors.Is(err, types.ErrAlreadyVoted):
		return ErrAlreadyVoted
	case errors.Is(err, types.ErrIncompleteBallot):
		return ErrIncompleteBallot.WithErr(err)
	case errors.Is(err, types.ErrVoteIntegrityViolation):
		return ErrVoteIntegrity
	case errors.Is(err, types.ErrInvalidTieBreakSelection):
		return ErrInvalidTieBreak.WithErr(err)
	case errors.Is(err, types.ErrResultsAlreadyDeclared):
		return ErrResultsAlreadyExist
	case errors.Is(err, otp.ErrDispatchFailed):
		return ErrOTPDispatchFailed
	default:
		return ErrGenericInternalServerError.WithErr(err)
	}
}
