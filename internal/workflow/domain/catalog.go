package domain

import (
	"sort"

	"github.com/google/uuid"
)

// Catalog is the set of statuses of one project, loaded for a single
// command. It enforces name uniqueness and derives unique slugs.
type Catalog struct {
	projectID uuid.UUID
	statuses  []*Status
}

// NewCatalog wraps the statuses of projectID. Statuses of other projects
// are ignored.
func NewCatalog(projectID uuid.UUID, statuses []*Status) (*Catalog, error) {
	if projectID == uuid.Nil {
		return nil, ErrInvalidProject
	}
	c := &Catalog{projectID: projectID}
	for _, s := range statuses {
		if s.ProjectID() == projectID {
			c.statuses = append(c.statuses, s)
		}
	}
	return c, nil
}

func (c *Catalog) ProjectID() uuid.UUID { return c.projectID }

func (c *Catalog) Len() int { return len(c.statuses) }

// Statuses returns the statuses by ascending order, ties broken by name.
func (c *Catalog) Statuses() []*Status {
	sorted := append([]*Status(nil), c.statuses...)
	SortStatuses(sorted)
	return sorted
}

// Find returns the status with id if it belongs to the project.
func (c *Catalog) Find(id uuid.UUID) (*Status, bool) {
	for _, s := range c.statuses {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// Entry is the lowest-ordered status, where new tasks land by default.
func (c *Catalog) Entry() (*Status, bool) {
	if len(c.statuses) == 0 {
		return nil, false
	}
	return c.Statuses()[0], true
}

func (c *Catalog) nameTaken(name string, except uuid.UUID) bool {
	for _, s := range c.statuses {
		if s.ID() != except && s.Name() == name {
			return true
		}
	}
	return false
}

func (c *Catalog) slugTaken(slug string, except uuid.UUID) bool {
	for _, s := range c.statuses {
		if s.ID() != except && s.Slug() == slug {
			return true
		}
	}
	return false
}

func (c *Catalog) uniqueSlug(name string, except uuid.UUID) string {
	return UniqueSlug(Slugify(name), func(slug string) bool { return c.slugTaken(slug, except) })
}

// Add creates a status in the project. Existing orders are left alone.
func (c *Catalog) Add(name, color string, order int, isCompleted bool) (*Status, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if c.nameTaken(name, uuid.Nil) {
		return nil, ErrDuplicateStatusName
	}

	status := newStatus(c.projectID, name, c.uniqueSlug(name, uuid.Nil), color, order, isCompleted)
	c.statuses = append(c.statuses, status)
	return status, nil
}

// Rename changes a status name and re-derives its slug. Renaming to the
// current name is a no-op.
func (c *Catalog) Rename(id uuid.UUID, name string) (*Status, error) {
	status, ok := c.Find(id)
	if !ok {
		return nil, ErrStatusNotFound
	}
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if name == status.Name() {
		return status, nil
	}
	if c.nameTaken(name, id) {
		return nil, ErrDuplicateStatusName
	}

	status.rename(name, c.uniqueSlug(name, id))
	return status, nil
}

// Remove drops a status from the catalog.
func (c *Catalog) Remove(id uuid.UUID) (*Status, error) {
	for i, s := range c.statuses {
		if s.ID() == id {
			c.statuses = append(c.statuses[:i], c.statuses[i+1:]...)
			return s, nil
		}
	}
	return nil, ErrStatusNotFound
}

// SortStatuses orders statuses for display: ascending order, then name.
func SortStatuses(statuses []*Status) {
	sort.SliceStable(statuses, func(i, j int) bool {
		if statuses[i].Order() != statuses[j].Order() {
			return statuses[i].Order() < statuses[j].Order()
		}
		return statuses[i].Name() < statuses[j].Name()
	})
}
