package controller

import (
	"fmt"

	"github.com/milk9111/pawnctl/input"
	"github.com/milk9111/pawnctl/prefabs"
)

// Trigger selects how held jump/shoot keys turn into attempts.
type Trigger uint8

const (
	// TriggerLevel attempts the action every frame the key is held and
	// relies on the pawn's own gate to prevent repeats.
	TriggerLevel Trigger = iota
	// TriggerEdge attempts the action once per press. The key must be
	// released before it fires again.
	TriggerEdge
)

func (t Trigger) String() string {
	switch t {
	case TriggerLevel:
		return "level"
	case TriggerEdge:
		return "edge"
	}
	return fmt.Sprintf("trigger(%d)", uint8(t))
}

// ParseTrigger accepts "level", "edge" or "" (level).
func ParseTrigger(s string) (Trigger, error) {
	switch s {
	case "", "level":
		return TriggerLevel, nil
	case "edge":
		return TriggerEdge, nil
	}
	return TriggerLevel, fmt.Errorf("controller: unknown trigger mode %q", s)
}

// Config tunes a Controller.
type Config struct {
	Trigger  Trigger
	Bindings input.Bindings
}

// DefaultConfig is level triggered with the stock key table.
func DefaultConfig() Config {
	return Config{
		Trigger:  TriggerLevel,
		Bindings: input.DefaultBindings(),
	}
}

// Option adjusts the Config passed to New.
type Option func(*Config)

// WithTrigger sets the jump/shoot trigger mode.
func WithTrigger(t Trigger) Option {
	return func(c *Config) {
		c.Trigger = t
	}
}

// WithBindings replaces the key table. A nil table keeps the default.
func WithBindings(b input.Bindings) Option {
	return func(c *Config) {
		if b != nil {
			c.Bindings = b
		}
	}
}

// WithConfig replaces the whole config.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
		if c.Bindings == nil {
			c.Bindings = input.DefaultBindings()
		}
	}
}

// ConfigFromSpec builds a Config from a controller prefab. Missing bindings
// fall back to the defaults.
func ConfigFromSpec(spec *prefabs.ControllerSpec) (Config, error) {
	cfg := DefaultConfig()
	if spec == nil {
		return cfg, nil
	}
	trigger, err := ParseTrigger(spec.Trigger)
	if err != nil {
		return cfg, fmt.Errorf("controller: spec %s: %w", spec.Name, err)
	}
	cfg.Trigger = trigger
	if len(spec.Bindings) > 0 {
		b, err := input.ParseBindings(spec.Bindings)
		if err != nil {
			return cfg, fmt.Errorf("controller: spec %s: %w", spec.Name, err)
		}
		cfg.Bindings = b
	}
	return cfg, nil
}
