package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
)

// results serves the declared result set of an election. It is a public
// endpoint, results only exist once declared.
func (a *API) results(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	rs, err := a.resolver.Results(e.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrResultsNotDeclared.Write(w)
		} else {
			ErrGenericInternalServerError.WithErr(err).Write(w)
		}
		return
	}
	httpWriteJSON(w, rs)
}

// declareResults tallies a completed election and publishes its result set.
// Positions with a tie require an explicit winner in the request.
func (a *API) declareResults(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	req := DeclareResultsRequest{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	rs, err := a.resolver.Declare(e, req.TieBreaks)
	if err != nil {
		errorToAPI(err).Write(w)
		return
	}
	httpWriteJSON(w, rs)
}
