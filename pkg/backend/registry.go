package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ErrNoFramework is returned when neither the argument set nor the vendor
// configuration names a framework.
var ErrNoFramework = errors.New("no framework specified")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Backend)
)

// Register adds a backend factory to the registry.
// Called by backend implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a backend factory by name.
func Get(name string) (func(*slog.Logger) Backend, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New creates a backend instance for the named framework.
// The logger is passed to the backend constructor (nil uses a discard logger).
func New(name string, logger *slog.Logger) (Backend, error) {
	if name == "" {
		return nil, ErrNoFramework
	}

	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownFrameworkError{
			Name:      name,
			Available: List(),
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return factory(logger), nil
}

// List returns all registered framework names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a framework name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownFrameworkError is returned when an unregistered framework is requested.
type UnknownFrameworkError struct {
	Name      string
	Available []string
}

func (e *UnknownFrameworkError) Error() string {
	return fmt.Sprintf("unknown framework %q\nAvailable frameworks: %v\nHint: check --framework or default_framework in guardrail.yaml", e.Name, e.Available)
}
