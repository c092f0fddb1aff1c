package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/api"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/otp"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
)

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	storage *storage.Storage
	api     *api.API
	mu      sync.Mutex
	cancel  context.CancelFunc
	config  APIServiceConfig
}

// APIServiceConfig holds the API server settings and its collaborators.
type APIServiceConfig struct {
	Host        string
	Port        int
	TokenSecret string
	AdminToken  string
	Directory   otp.Directory
	Dispatcher  otp.Dispatcher
}

// NewAPI creates a new APIService instance.
func NewAPI(storage *storage.Storage, config APIServiceConfig) *APIService {
	return &APIService{
		storage: storage,
		config:  config,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	_, as.cancel = context.WithCancel(ctx)

	var err error
	as.api, err = api.New(&api.APIConfig{
		Host:        as.config.Host,
		Port:        as.config.Port,
		Storage:     as.storage,
		TokenSecret: as.config.TokenSecret,
		AdminToken:  as.config.AdminToken,
		Directory:   as.config.Directory,
		Dispatcher:  as.config.Dispatcher,
	})
	if err != nil {
		as.cancel = nil
		return fmt.Errorf("failed to start API server: %w", err)
	}

	return nil
}

// Stop halts the API server.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
	as.storage.Close()
}

// API returns the running API instance, or nil before Start.
func (as *APIService) API() *api.API {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.api
}

// HostPort returns the host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.config.Host, as.config.Port
}
