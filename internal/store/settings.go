package store

import (
	"context"
	"sync"
)

// Settings holds the gateway-wide commission rates and the percentage of
// every payment blocked at acceptance. All three default to zero until the
// first administrative update.
type Settings struct {
	CommissionA float64 `json:"commissionA"`
	CommissionB float64 `json:"commissionB"`
	BlockSum    float64 `json:"blockSum"`
}

type SettingsStore struct {
	mu      sync.RWMutex
	current Settings
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

func (s *SettingsStore) Get(_ context.Context) Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update replaces all three values at once and returns what was stored.
func (s *SettingsStore) Update(_ context.Context, settings Settings) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = settings
	return s.current
}
