package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Builtins(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	names := make([]string, 0)
	for _, bp := range r.List() {
		names = append(names, bp.Name)
	}
	assert.Equal(t, []string{"basic", "kanban", "scrum"}, names)

	basic, err := r.Get("basic")
	require.NoError(t, err)
	require.Len(t, basic.Statuses, 3)
	assert.Equal(t, "To Do", basic.Statuses[0].Name)
	assert.True(t, basic.Statuses[2].Completed)
	assert.Contains(t, basic.Transitions, domain.BlueprintTransition{From: "In Progress", To: "Done"})

	_, err = r.Get("waterfall")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestParse(t *testing.T) {
	t.Run("name falls back to file name", func(t *testing.T) {
		bp, err := Parse([]byte(`
statuses:
  - name: Open
  - name: Closed
    completed: true
transitions:
  - { from: Open, to: Closed }
`), "support")
		require.NoError(t, err)
		assert.Equal(t, "support", bp.Name)
		assert.Len(t, bp.Transitions, 1)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := Parse([]byte("  \n"), "x")
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("statuses: [unterminated"), "x")
		assert.Error(t, err)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		_, err := Parse([]byte(`
statuses:
  - name: Open
transitions:
  - { from: Open, to: Shipped }
`), "x")
		assert.ErrorIs(t, err, domain.ErrInvalidBlueprint)
	})
}

func TestRegistry_LoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "support.yml"), []byte(`
description: Helpdesk tickets
statuses:
  - name: New
  - name: Waiting
  - name: Solved
    completed: true
transitions:
  - { from: New, to: Waiting }
  - { from: Waiting, to: Solved }
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basic.yaml"), []byte(`
name: basic
statuses:
  - name: Open
  - name: Closed
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a template"), 0o600))

	r, err := NewRegistry()
	require.NoError(t, err)
	require.NoError(t, r.LoadDir(dir))

	support, err := r.Get("support")
	require.NoError(t, err)
	assert.Equal(t, "Helpdesk tickets", support.Description)

	basic, err := r.Get("basic")
	require.NoError(t, err)
	assert.Len(t, basic.Statuses, 2)

	assert.Len(t, r.List(), 4)
	assert.NoError(t, r.LoadDir(""))
}

func TestRegistry_LoadDirRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\n"), 0o600))

	r, err := NewRegistry()
	require.NoError(t, err)
	assert.ErrorIs(t, r.LoadDir(dir), domain.ErrInvalidBlueprint)
}

func TestRegistry_LoadDirRejectsBadPath(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Error(t, r.LoadDir(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, r.LoadDir("templates;rm -rf"))
}
