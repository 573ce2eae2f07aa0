package types

import "fmt"

// TriggerTiming is when a trigger fires relative to its event.
type TriggerTiming string

// Trigger timings.
const (
	Before TriggerTiming = "BEFORE"
	After  TriggerTiming = "AFTER"
)

// TriggerEvent is the statement kind a trigger fires on.
type TriggerEvent string

// Trigger events.
const (
	OnInsert TriggerEvent = "INSERT"
	OnUpdate TriggerEvent = "UPDATE"
	OnDelete TriggerEvent = "DELETE"
)

// TriggerDefinition describes a row-level trigger. SQL is the raw body placed
// between BEGIN and END; it is trusted and never escaped.
type TriggerDefinition struct {
	Name   string        `json:"name" yaml:"name"`
	Table  string        `json:"table" yaml:"table"`
	Timing TriggerTiming `json:"timing" yaml:"timing"`
	Event  TriggerEvent  `json:"event" yaml:"event"`
	SQL    string        `json:"sql" yaml:"sql"`
}

// Validate checks the name, timing, event, and body.
func (t TriggerDefinition) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("trigger: %w", ErrEmptyName)
	}
	switch t.Timing {
	case Before, After:
	default:
		return fmt.Errorf("trigger %s: %w: %q", t.Name, ErrUnknownTiming, t.Timing)
	}
	switch t.Event {
	case OnInsert, OnUpdate, OnDelete:
	default:
		return fmt.Errorf("trigger %s: %w: %q", t.Name, ErrUnknownEvent, t.Event)
	}
	if t.SQL == "" {
		return fmt.Errorf("trigger %s: %w", t.Name, ErrEmptyTriggerBody)
	}
	return nil
}
