package participant

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry errors.
var (
	// ErrNotFound is returned when no participant matches a key or
	// display name.
	ErrNotFound = errors.New("participant not found")
)

// DuplicateKeyError is returned when registering a participant whose
// key is already taken.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("participant key already registered: %s", e.Key)
}

// Registry holds the active participants in registration order.
// Registration order is the default speaking order for sequential
// modes, so it is preserved rather than sorted.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byKey  map[string]Participant
	byName map[string]string // lowercased display name -> key
}

// NewRegistry creates an empty participant registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:  make(map[string]Participant),
		byName: make(map[string]string),
	}
}

// Register adds a participant. Keys must be unique; display names are
// expected unique but a collision only shadows directive matching, so
// the later registration wins the name index.
func (r *Registry) Register(p Participant) error {
	if p == nil {
		return errors.New("participant must not be nil")
	}
	key := p.Key()
	if key == "" {
		return errors.New("participant key must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[key]; exists {
		return &DuplicateKeyError{Key: key}
	}

	r.byKey[key] = p
	r.order = append(r.order, key)
	r.byName[strings.ToLower(p.DisplayName())] = key
	return nil
}

// Get returns the participant for a key.
func (r *Registry) Get(key string) (Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return p, nil
}

// HasKey reports whether a participant key is registered.
func (r *Registry) HasKey(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byKey[key]
	return ok
}

// KeyByDisplayName resolves a display name to a participant key,
// case-insensitively.
func (r *Registry) KeyByDisplayName(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.byName[strings.ToLower(name)]
	return key, ok
}

// List returns all participants in registration order.
func (r *Registry) List() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Participant, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// Keys returns all participant keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered participants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// DisplayNames returns the registered display names sorted for stable
// error messages.
func (r *Registry) DisplayNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.order))
	for _, key := range r.order {
		names = append(names, r.byKey[key].DisplayName())
	}
	sort.Strings(names)
	return names
}

// ResolveModel maps one model= directive value to a participant.
// Matching is case-insensitive: an exact display name match wins,
// otherwise a substring match is accepted when it is unambiguous.
func (r *Registry) ResolveModel(name string) (Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, fmt.Errorf("%w: empty model name", ErrNotFound)
	}

	if key, ok := r.byName[needle]; ok {
		return r.byKey[key], nil
	}

	var matches []Participant
	for _, key := range r.order {
		p := r.byKey[key]
		if strings.Contains(strings.ToLower(p.DisplayName()), needle) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	default:
		names := make([]string, len(matches))
		for i, p := range matches {
			names[i] = p.DisplayName()
		}
		return nil, fmt.Errorf("model name %q is ambiguous, matches: %s", name, strings.Join(names, ", "))
	}
}

// ResolveModels maps a model= directive list to distinct participants,
// preserving request order.
func (r *Registry) ResolveModels(names []string) ([]Participant, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]Participant, 0, len(names))
	for _, name := range names {
		p, err := r.ResolveModel(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[p.Key()]; dup {
			continue
		}
		seen[p.Key()] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}
