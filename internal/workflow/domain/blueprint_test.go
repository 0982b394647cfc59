package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlueprint_Validate(t *testing.T) {
	valid := Blueprint{
		Name: "basic",
		Statuses: []BlueprintStatus{
			{Name: "To Do"}, {Name: "Doing"}, {Name: "Done", Completed: true},
		},
		Transitions: []BlueprintTransition{{From: "To Do", To: "Doing"}, {From: "Doing", To: "Done"}},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		bp   Blueprint
	}{
		{"no statuses", Blueprint{Name: "x"}},
		{"blank status", Blueprint{Name: "x", Statuses: []BlueprintStatus{{Name: " "}}}},
		{"duplicate status", Blueprint{Name: "x", Statuses: []BlueprintStatus{{Name: "A"}, {Name: "A"}}}},
		{"unknown endpoint", Blueprint{
			Name:        "x",
			Statuses:    []BlueprintStatus{{Name: "A"}},
			Transitions: []BlueprintTransition{{From: "A", To: "B"}},
		}},
		{"self loop", Blueprint{
			Name:        "x",
			Statuses:    []BlueprintStatus{{Name: "A"}},
			Transitions: []BlueprintTransition{{From: "A", To: "A"}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.bp.Validate(), ErrInvalidBlueprint)
		})
	}
}
