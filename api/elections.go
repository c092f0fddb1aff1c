package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/ballot"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/crypto/ballotenc"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/util"
)

// createElection registers a new election with its positions and candidate
// roster and generates the election key pair. The election starts in the
// Upcoming state.
func (a *API) createElection(w http.ResponseWriter, r *http.Request) {
	var req CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if err := validateElectionRequest(&req); err != nil {
		ErrMalformedElection.WithErr(err).Write(w)
		return
	}
	e := &types.Election{
		ID:                 util.RandomBytes(16),
		Title:              req.Title,
		Description:        req.Description,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Status:             types.ElectionStatusUpcoming,
		AutoDeclareResults: req.AutoDeclareResults,
		Positions:          req.Positions,
	}

	priv, err := ballotenc.GenerateKey()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	pubPEM, err := ballotenc.MarshalPublicKey(&priv.PublicKey)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	privDER, err := ballotenc.MarshalPrivateKey(priv)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}

	// keys first: an election record without its keypair could never
	// accept votes
	if err := a.storage.SetEncryptionKeys(e.ID, &types.EncryptionKeys{
		PublicKeyPEM:  pubPEM,
		PrivateKeyDER: privDER,
	}); err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	if err := a.storage.SetElection(e); err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	log.Infow("election created", "electionId", e.ID.String(), "title", e.Title,
		"positions", len(e.Positions))
	httpWriteJSON(w, CreateElectionResponse{
		ElectionID:   e.ID,
		PublicKeyPEM: string(pubPEM),
	})
}

func validateElectionRequest(req *CreateElectionRequest) error {
	if req.Title == "" {
		return errors.New("missing title")
	}
	if !req.EndTime.After(req.StartTime) {
		return errors.New("end time must be after start time")
	}
	if len(req.Positions) == 0 {
		return errors.New("at least one position is required")
	}
	seen := map[string]bool{}
	for _, p := range req.Positions {
		if p.Name == "" {
			return errors.New("position with empty name")
		}
		if seen[p.Name] {
			return errors.New("duplicate position " + p.Name)
		}
		seen[p.Name] = true
		if len(p.Candidates) == 0 {
			return errors.New("position " + p.Name + " has no candidates")
		}
	}
	return nil
}

// listElections returns a summary of every stored election, with the
// requesting voter's hasVoted flag.
func (a *API) listElections(w http.ResponseWriter, r *http.Request) {
	ids, err := a.storage.ListElections()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	voter := requestVoterID(r)
	resp := ElectionsResponse{Elections: []ElectionSummary{}}
	for _, id := range ids {
		e, err := a.storage.Election(id)
		if err != nil {
			log.Warnw("skipping unreadable election", "electionId", id.String(), "error", err)
			continue
		}
		voted, err := a.storage.HasVoted(e, voter)
		if err != nil {
			ErrGenericInternalServerError.WithErr(err).Write(w)
			return
		}
		summary := electionSummary(e)
		summary.HasVoted = voted
		resp.Elections = append(resp.Elections, summary)
	}
	httpWriteJSON(w, resp)
}

// electionSummary builds the listing view: position names and the approved
// candidate count, not the full roster.
func electionSummary(e *types.Election) ElectionSummary {
	positions := make([]string, 0, len(e.Positions))
	candidates := 0
	for _, p := range e.Positions {
		positions = append(positions, p.Name)
		for _, cand := range p.Candidates {
			if cand.Approved {
				candidates++
			}
		}
	}
	return ElectionSummary{
		ElectionID:     e.ID,
		Title:          e.Title,
		Description:    e.Description,
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		Status:         e.Status,
		Positions:      positions,
		CandidateCount: candidates,
	}
}

// electionBallot serves the ballot of an ongoing election, with only the
// approved candidates for each position.
func (a *API) electionBallot(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	b, err := ballot.Assemble(e)
	if err != nil {
		errorToAPI(err).Write(w)
		return
	}
	httpWriteJSON(w, b)
}

// electionPublicKey serves the PEM public key of an ongoing election so
// voters can encrypt their selections client side.
func (a *API) electionPublicKey(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromRequest(w, r)
	if !ok {
		return
	}
	if e.Status != types.ElectionStatusOngoing {
		ErrElectionNotOngoing.Write(w)
		return
	}
	keys, err := a.storage.EncryptionKeys(e.ID)
	if err != nil {
		errorToAPI(err).Write(w)
		return
	}
	httpWriteJSON(w, PublicKeyResponse{PublicKeyPEM: string(keys.PublicKeyPEM)})
}

// startElection transitions an election from Upcoming to Ongoing.
func (a *API) startElection(w http.ResponseWriter, r *http.Request) {
	eid, err := urlElectionID(r)
	if err != nil {
		ErrMalformedElectionID.Write(w)
		return
	}
	req := transitionRequest(r)
	e, err := a.stateMachine.Start(eid, req.Force)
	if err != nil {
		errorToAPI(err).Write(w)
		return
	}
	httpWriteJSON(w, electionSummary(e))
}

// endElection transitions an election from Ongoing to Completed, triggering
// result auto-declaration when configured and no tie blocks it.
func (a *API) endElection(w http.ResponseWriter, r *http.Request) {
	eid, err := urlElectionID(r)
	if err != nil {
		ErrMalformedElectionID.Write(w)
		return
	}
	req := transitionRequest(r)
	e, err := a.stateMachine.End(eid, req.Force)
	if err != nil {
		errorToAPI(err).Write(w)
		return
	}
	httpWriteJSON(w, electionSummary(e))
}

// transitionRequest decodes the optional lifecycle payload. An empty body
// means no force.
func transitionRequest(r *http.Request) TransitionRequest {
	var req TransitionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	return req
}

// electionFromRequest resolves the election referenced by the URL, writing
// the proper API error when it cannot.
func (a *API) electionFromRequest(w http.ResponseWriter, r *http.Request) (*types.Election, bool) {
	eid, err := urlElectionID(r)
	if err != nil {
		ErrMalformedElectionID.Write(w)
		return nil, false
	}
	e, err := a.storage.Election(eid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrElectionNotFound.Write(w)
		} else {
			ErrGenericInternalServerError.WithErr(err).Write(w)
		}
		return nil, false
	}
	return e, true
}
