package space

import (
	"encoding/json"
	"fmt"
	"os"
)

// NotifyPolicy selects which nodes fire their subscribers after an action.
type NotifyPolicy int

const (
	// NotifyPropagate fires subscribers on every node whose state changed:
	// the acting node, each ancestor up to the root, and any descendant
	// rewritten by the action.
	NotifyPropagate NotifyPolicy = iota
	// NotifyOrigin fires subscribers only on the acting node, or on its
	// parent when the action removed it.
	NotifyOrigin
)

func (p NotifyPolicy) String() string {
	switch p {
	case NotifyOrigin:
		return "origin"
	default:
		return "propagate"
	}
}

// ParseNotifyPolicy maps a config string to a NotifyPolicy.
func ParseNotifyPolicy(s string) (NotifyPolicy, error) {
	switch s {
	case "", "propagate":
		return NotifyPropagate, nil
	case "origin":
		return NotifyOrigin, nil
	default:
		return NotifyPropagate, fmt.Errorf("unknown notify policy: %s", s)
	}
}

// Config holds tree initialization parameters. The observer is named so it
// can be resolved through the observability registry.
type Config struct {
	Observer string `json:"observer,omitempty"`
	Notify   string `json:"notify,omitempty"`
}

// DefaultConfig returns a Config that discards events and notifies every
// changed node.
func DefaultConfig() Config {
	return Config{
		Observer: "noop",
		Notify:   NotifyPropagate.String(),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if source.Notify != "" {
		c.Notify = source.Notify
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
