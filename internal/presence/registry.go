// Package presence tracks which display names are online. A name is online
// while at least one live connection claims it, so multiple tabs under one
// name never double-count and closing one of them never marks the name
// offline.
package presence

import (
	"sort"
	"sync"

	"github.com/nshivakumar1/social-app-clone/internal/models"
)

// Registry maps connection handles to claimed display names and keeps a
// reference-counted set of online names. Handles are opaque strings owned by
// the transport layer.
type Registry struct {
	mu sync.RWMutex

	// claims holds one entry per registered connection. The empty string
	// means the connection has not claimed a name yet.
	claims map[string]string

	// online counts live connections per claimed name.
	online map[string]int
}

// ClaimResult reports the outcome of a successful claim.
type ClaimResult struct {
	// AlreadyOnline is true when another live connection already claimed the
	// same name before this call. Callers use it to suppress duplicate
	// "joined" announcements from multi-tab use.
	AlreadyOnline bool
}

// ReleaseResult reports the name released by a disconnecting handle.
type ReleaseResult struct {
	Name string
	// StillOnline is true when another live connection still claims Name.
	StillOnline bool
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		claims: make(map[string]string),
		online: make(map[string]int),
	}
}

// RegisterConnection adds an unclaimed entry for the handle. Registering an
// already-known handle is a no-op.
func (r *Registry) RegisterConnection(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.claims[handle]; !ok {
		r.claims[handle] = ""
	}
}

// Claim binds the handle to a display name. A handle claims at most one name
// for its lifetime: re-claiming the same name is a no-op success, claiming a
// different one fails with a state error. Claiming from an unregistered
// handle registers it implicitly.
func (r *Registry) Claim(handle, name string) (ClaimResult, error) {
	if name == "" {
		return ClaimResult{}, models.NewValidationError("Display name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.claims[handle]
	if current != "" && current != name {
		return ClaimResult{}, models.NewStateError("Connection already claimed a different name")
	}

	alreadyOnline := r.online[name] > 0
	if current == name {
		return ClaimResult{AlreadyOnline: alreadyOnline}, nil
	}

	r.claims[handle] = name
	r.online[name]++
	return ClaimResult{AlreadyOnline: alreadyOnline}, nil
}

// Release removes the handle's entry. The second return value is false when
// the handle was unknown or had not claimed a name. Releasing one handle
// never takes a name offline while another live connection still claims it.
func (r *Registry) Release(handle string) (ReleaseResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.claims[handle]
	delete(r.claims, handle)
	if !ok || name == "" {
		return ReleaseResult{}, false
	}

	r.online[name]--
	if r.online[name] <= 0 {
		delete(r.online, name)
		return ReleaseResult{Name: name, StillOnline: false}, true
	}
	return ReleaseResult{Name: name, StillOnline: true}, true
}

// OnlineCount returns the number of distinct names currently online.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.online)
}

// IsOnline reports whether any live connection claims the name.
func (r *Registry) IsOnline(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.online[name] > 0
}

// OnlineNames returns the sorted list of distinct online names.
func (r *Registry) OnlineNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.online))
	for name := range r.online {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
