package domain

import (
	"fmt"
	"strings"
)

// Blueprint describes a complete workflow to seed into an empty project.
// Transitions refer to statuses by name.
type Blueprint struct {
	Name        string
	Description string
	Statuses    []BlueprintStatus
	Transitions []BlueprintTransition
}

type BlueprintStatus struct {
	Name      string
	Color     string
	Completed bool
}

type BlueprintTransition struct {
	From string
	To   string
}

// Validate checks names are present and unique and that every transition
// joins two distinct declared statuses.
func (b Blueprint) Validate() error {
	if len(b.Statuses) == 0 {
		return fmt.Errorf("%w: %q declares no statuses", ErrInvalidBlueprint, b.Name)
	}

	names := make(map[string]bool, len(b.Statuses))
	for _, s := range b.Statuses {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("%w: %q has a status without a name", ErrInvalidBlueprint, b.Name)
		}
		if names[name] {
			return fmt.Errorf("%w: %q declares status %q twice", ErrInvalidBlueprint, b.Name, name)
		}
		names[name] = true
	}

	for _, tr := range b.Transitions {
		from, to := strings.TrimSpace(tr.From), strings.TrimSpace(tr.To)
		if !names[from] || !names[to] {
			return fmt.Errorf("%w: %q transition %s -> %s references an unknown status", ErrInvalidBlueprint, b.Name, from, to)
		}
		if from == to {
			return fmt.Errorf("%w: %q transition on %q is a self-loop", ErrInvalidBlueprint, b.Name, from)
		}
	}
	return nil
}
