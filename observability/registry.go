package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// ErrUnknownObserver is returned by Lookup for a name nothing registered.
var ErrUnknownObserver = errors.New("unknown observer")

var (
	registry = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	}
	registryMu sync.RWMutex
)

// Lookup returns the observer registered as name. Config files refer to
// observers by these names; "noop" and "slog" are always present.
func Lookup(name string) (Observer, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	obs, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObserver, name)
	}
	return obs, nil
}

// Register adds or replaces a named observer.
func Register(name string, observer Observer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = observer
}

// Names lists the registered observer names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
