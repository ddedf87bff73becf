package input

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

var ErrScriptEvent = errors.New("input: malformed script event")

// ScriptSource drives a Bus from a tengo script. Before each run the script
// sees the global `frame` (ticks since start) and an empty `events` array;
// it appends maps of the form {key: "KeyW", down: true} to `events`.
type ScriptSource struct {
	name     string
	bus      *Bus
	compiled *tengo.Compiled
	frame    int
}

// NewScriptSource compiles src. name is used in error messages only.
func NewScriptSource(name string, src []byte, bus *Bus) (*ScriptSource, error) {
	script := tengo.NewScript(src)
	_ = script.Add("frame", 0)
	_ = script.Add("events", []interface{}{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: compile script %s: %w", name, err)
	}
	return &ScriptSource{name: name, bus: bus, compiled: compiled}, nil
}

// Frame returns the frame number the next Poll will run.
func (s *ScriptSource) Frame() int {
	return s.frame
}

// Poll runs the script for the current frame, publishes the events it
// produced and advances the frame counter. On error nothing is published.
func (s *ScriptSource) Poll() error {
	if s == nil || s.compiled == nil {
		return nil
	}
	frame := s.frame
	s.frame++

	if err := s.compiled.Set("frame", frame); err != nil {
		return fmt.Errorf("input: script %s: set frame: %w", s.name, err)
	}
	if err := s.compiled.Set("events", []interface{}{}); err != nil {
		return fmt.Errorf("input: script %s: reset events: %w", s.name, err)
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("input: script %s: frame %d: %w", s.name, frame, err)
	}

	events, err := decodeScriptEvents(s.compiled.Get("events").Array())
	if err != nil {
		return fmt.Errorf("input: script %s: frame %d: %w", s.name, frame, err)
	}
	for _, evt := range events {
		s.bus.Publish(evt)
	}
	return nil
}

func decodeScriptEvents(raw []interface{}) ([]Event, error) {
	out := make([]Event, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: events[%d] is %T, want map", ErrScriptEvent, i, item)
		}
		key, ok := m["key"].(string)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: events[%d] has no key", ErrScriptEvent, i)
		}
		down, ok := m["down"].(bool)
		if !ok {
			return nil, fmt.Errorf("%w: events[%d] has no down flag", ErrScriptEvent, i)
		}
		out = append(out, Event{Key: Key(key), Down: down})
	}
	return out, nil
}
