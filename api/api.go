package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/ballot"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/election"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/otp"
	stg "github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/tally"
)

// APIConfig type represents the configuration for the API HTTP server: the
// listen address, the storage instance shared with the other services, and
// the credentials of the two authentication boundaries (voter bearer tokens
// and the administrator token).
type APIConfig struct {
	Host        string
	Port        int
	Storage     *stg.Storage
	TokenSecret string // HMAC secret for voter bearer tokens
	AdminToken  string // static administrator bearer token
	Directory   otp.Directory
	Dispatcher  otp.Dispatcher
}

// API type represents the API HTTP server, wiring the election core
// components behind the HTTP handlers.
type API struct {
	router       *chi.Mux
	storage      *stg.Storage
	gate         *otp.Gate
	intake       *ballot.Intake
	stateMachine *election.StateMachine
	resolver     *tally.Resolver
	tokenSecret  string
	adminToken   string
}

// New creates a new API instance with the given configuration and starts
// the HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Storage == nil {
		return nil, fmt.Errorf("missing storage instance")
	}
	if conf.TokenSecret == "" || conf.AdminToken == "" {
		return nil, fmt.Errorf("missing authentication configuration")
	}
	resolver := tally.NewResolver(conf.Storage)
	a := &API{
		storage:      conf.Storage,
		gate:         otp.NewGate(conf.Storage, conf.Directory, conf.Dispatcher),
		intake:       ballot.NewIntake(conf.Storage),
		stateMachine: election.NewStateMachine(conf.Storage, resolver),
		resolver:     resolver,
		tokenSecret:  conf.TokenSecret,
		adminToken:   conf.AdminToken,
	}

	// Initialize router
	a.initRouter()
	go func() {
		log.Infow("Starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})

	// public surface
	log.Infow("register handler", "endpoint", ResultsEndpoint, "method", "GET")
	a.router.Get(ResultsEndpoint, a.results)

	// voter surface
	a.router.Group(func(r chi.Router) {
		r.Use(a.voterAuth)
		log.Infow("register handler", "endpoint", ElectionsEndpoint, "method", "GET")
		r.Get(ElectionsEndpoint, a.listElections)
		log.Infow("register handler", "endpoint", BallotEndpoint, "method", "GET")
		r.Get(BallotEndpoint, a.electionBallot)
		log.Infow("register handler", "endpoint", PublicKeyEndpoint, "method", "GET")
		r.Get(PublicKeyEndpoint, a.electionPublicKey)
		log.Infow("register handler", "endpoint", OTPRequestEndpoint, "method", "POST")
		r.Post(OTPRequestEndpoint, a.requestOTP)
		log.Infow("register handler", "endpoint", OTPVerifyEndpoint, "method", "POST")
		r.Post(OTPVerifyEndpoint, a.verifyOTP)
		log.Infow("register handler", "endpoint", VotesEndpoint, "method", "POST")
		r.Post(VotesEndpoint, a.castVote)
		log.Infow("register handler", "endpoint", VoteStatusEndpoint, "method", "GET")
		r.Get(VoteStatusEndpoint, a.voteStatus)
	})

	// administrator surface
	a.router.Group(func(r chi.Router) {
		r.Use(a.adminAuth)
		log.Infow("register handler", "endpoint", ElectionsEndpoint, "method", "POST")
		r.Post(ElectionsEndpoint, a.createElection)
		log.Infow("register handler", "endpoint", StartEndpoint, "method", "POST")
		r.Post(StartEndpoint, a.startElection)
		log.Infow("register handler", "endpoint", EndEndpoint, "method", "POST")
		r.Post(EndEndpoint, a.endElection)
		log.Infow("register handler", "endpoint", ResultsEndpoint, "method", "POST")
		r.Post(ResultsEndpoint, a.declareResults)
	})
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}
