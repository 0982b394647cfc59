// Package templates loads workflow blueprints from YAML. A set of builtin
// templates is embedded in the binary; more can be read from a directory.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrTemplateNotFound is returned for an unknown template name.
var ErrTemplateNotFound = errors.New("workflow template not found")

type templateFile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Statuses    []struct {
		Name      string `yaml:"name"`
		Color     string `yaml:"color"`
		Completed bool   `yaml:"completed"`
	} `yaml:"statuses"`
	Transitions []struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"transitions"`
}

// Parse decodes and validates a YAML template. fallbackName is used when the
// document has no name.
func Parse(data []byte, fallbackName string) (domain.Blueprint, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Blueprint{}, fmt.Errorf("template payload is empty")
	}
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Blueprint{}, fmt.Errorf("failed to decode template: %w", err)
	}

	bp := domain.Blueprint{
		Name:        strings.TrimSpace(file.Name),
		Description: strings.TrimSpace(file.Description),
	}
	if bp.Name == "" {
		bp.Name = fallbackName
	}
	for _, s := range file.Statuses {
		bp.Statuses = append(bp.Statuses, domain.BlueprintStatus{Name: s.Name, Color: s.Color, Completed: s.Completed})
	}
	for _, tr := range file.Transitions {
		bp.Transitions = append(bp.Transitions, domain.BlueprintTransition{From: tr.From, To: tr.To})
	}
	if err := bp.Validate(); err != nil {
		return domain.Blueprint{}, err
	}
	return bp, nil
}

// Registry holds templates by name.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]domain.Blueprint
}

// NewRegistry returns a registry holding the builtin templates.
func NewRegistry() (*Registry, error) {
	r := &Registry{templates: make(map[string]domain.Blueprint)}
	if err := r.loadFS(builtinFS, "builtin"); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadDir adds every .yaml or .yml file in dir. A template with the name of
// an existing one replaces it.
func (r *Registry) LoadDir(dir string) error {
	if dir == "" {
		return nil
	}
	resolved, err := security.ExistingDir(dir)
	if err != nil {
		return fmt.Errorf("invalid template directory: %w", err)
	}
	return r.loadFS(os.DirFS(resolved), ".")
}

func (r *Registry) loadFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("failed to read templates: %w", err)
	}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, entry.Name())))
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", entry.Name(), err)
		}
		bp, err := Parse(data, strings.TrimSuffix(entry.Name(), ext))
		if err != nil {
			return fmt.Errorf("template %s: %w", entry.Name(), err)
		}
		r.Register(bp)
	}
	return nil
}

// Register adds or replaces a template.
func (r *Registry) Register(bp domain.Blueprint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[bp.Name] = bp
}

// Get returns the named template.
func (r *Registry) Get(name string) (domain.Blueprint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bp, ok := r.templates[name]
	if !ok {
		return domain.Blueprint{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return bp, nil
}

// List returns all templates sorted by name.
func (r *Registry) List() []domain.Blueprint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Blueprint, 0, len(r.templates))
	for _, bp := range r.templates {
		out = append(out, bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
