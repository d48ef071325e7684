package registry

import (
	"fmt"
	"sync"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/contracts"
)

// Registry maps sport keys to their profiles
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]contracts.SportProfile
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		profiles: make(map[string]contracts.SportProfile),
	}
}

// Register adds a sport profile to the registry
func (r *Registry) Register(profile contracts.SportProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.SportKey()] = profile
	fmt.Printf("✓ Registered sport profile: %s\n", profile.SportKey())
}

// Get returns the profile for a sport key
func (r *Registry) Get(sportKey string) (contracts.SportProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[sportKey]
	return profile, ok
}

// Keys returns all registered sport keys
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.profiles))
	for key := range r.profiles {
		keys = append(keys, key)
	}
	return keys
}
