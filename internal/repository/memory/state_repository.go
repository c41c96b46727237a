package memory

import (
	"context"
	"sync"

	"github.com/tryggaplatser/locator/internal/domain/repository"
)

// stateRepository is an in-process StateRepository used when no redis
// backend is configured and in tests.
type stateRepository struct {
	mu      sync.RWMutex
	devices map[string]map[string]string
}

func NewStateRepository() repository.StateRepository {
	return &stateRepository{
		devices: make(map[string]map[string]string),
	}
}

func (s *stateRepository) Get(_ context.Context, deviceID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.devices[deviceID][key], nil
}

func (s *stateRepository) Set(_ context.Context, deviceID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.devices[deviceID] == nil {
		s.devices[deviceID] = make(map[string]string)
	}
	s.devices[deviceID][key] = value
	return nil
}
