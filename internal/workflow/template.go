package workflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"papercast/internal/services"
	"papercast/internal/state"
)

// StepSpec is one step description inside a template.
type StepSpec struct {
	Type         StepType `json:"type"`
	Title        string   `json:"title"`
	Prompt       string   `json:"prompt,omitempty"`
	Params       Params   `json:"params,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Template is a named, ordered catalog entry describing a reusable pipeline.
type Template struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Steps       []StepSpec `json:"steps"`
}

const (
	templatesSnapshotName    = "templates"
	templatesSnapshotVersion = 1
)

// Catalog holds the workflow templates, seeded with the defaults and
// persisted through the state store on every mutation.
type Catalog struct {
	mu        sync.Mutex
	templates []Template
	store     *state.Store
}

// NewCatalog builds a catalog, rehydrating persisted templates when present
// and falling back to the default set. A nil store keeps the catalog in
// memory only.
func NewCatalog(ctx context.Context, store *state.Store) (*Catalog, error) {
	catalog := &Catalog{store: store}
	if store != nil {
		var saved []Template
		found, err := store.LoadSnapshot(ctx, templatesSnapshotName, templatesSnapshotVersion, &saved)
		if err != nil {
			return nil, fmt.Errorf("load template snapshot: %w", err)
		}
		if found {
			catalog.templates = saved
			return catalog, nil
		}
	}
	catalog.templates = DefaultTemplates()
	return catalog, nil
}

// List returns a copy of all templates.
func (c *Catalog) List() []Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tpl := range c.templates {
		if tpl.ID == id {
			return tpl, nil
		}
	}
	return Template{}, services.Wrap(services.ErrTemplateNotFound, "catalog", "get", id, nil)
}

// Add validates and stores a new template. An empty ID gets a generated one.
func (c *Catalog) Add(ctx context.Context, tpl Template) (Template, error) {
	if err := ValidateTemplate(tpl); err != nil {
		return Template{}, err
	}
	if tpl.ID == "" {
		tpl.ID = "template-" + uuid.NewString()
	}
	c.mu.Lock()
	c.templates = append(c.templates, tpl)
	c.mu.Unlock()
	return tpl, c.persist(ctx)
}

// Update replaces the template with the same id.
func (c *Catalog) Update(ctx context.Context, tpl Template) error {
	if err := ValidateTemplate(tpl); err != nil {
		return err
	}
	c.mu.Lock()
	replaced := false
	for i := range c.templates {
		if c.templates[i].ID == tpl.ID {
			c.templates[i] = tpl
			replaced = true
			break
		}
	}
	c.mu.Unlock()
	if !replaced {
		return services.Wrap(services.ErrTemplateNotFound, "catalog", "update", tpl.ID, nil)
	}
	return c.persist(ctx)
}

// Remove deletes the template with the given id.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	kept := c.templates[:0]
	removed := false
	for _, tpl := range c.templates {
		if tpl.ID == id {
			removed = true
			continue
		}
		kept = append(kept, tpl)
	}
	c.templates = kept
	c.mu.Unlock()
	if !removed {
		return services.Wrap(services.ErrTemplateNotFound, "catalog", "remove", id, nil)
	}
	return c.persist(ctx)
}

// ResetToDefaults discards user templates and restores the built-in set.
func (c *Catalog) ResetToDefaults(ctx context.Context) error {
	c.mu.Lock()
	c.templates = DefaultTemplates()
	c.mu.Unlock()
	return c.persist(ctx)
}

func (c *Catalog) persist(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	c.mu.Lock()
	snapshot := make([]Template, len(c.templates))
	copy(snapshot, c.templates)
	c.mu.Unlock()
	return c.store.SaveSnapshot(ctx, templatesSnapshotName, templatesSnapshotVersion, snapshot)
}

// ValidateTemplate checks structural soundness: a name, at least one step,
// unique non-empty titles, and dependencies that resolve to a step title or
// 1-based index within the template.
func ValidateTemplate(tpl Template) error {
	if strings.TrimSpace(tpl.Name) == "" {
		return services.Wrap(services.ErrValidation, "catalog", "validate", "template name required", nil)
	}
	if len(tpl.Steps) == 0 {
		return services.Wrap(services.ErrValidation, "catalog", "validate", "template has no steps", nil)
	}
	titles := make(map[string]struct{}, len(tpl.Steps))
	for i, step := range tpl.Steps {
		if strings.TrimSpace(step.Title) == "" {
			return services.Wrap(services.ErrValidation, "catalog", "validate",
				fmt.Sprintf("step %d has no title", i+1), nil)
		}
		if _, dup := titles[step.Title]; dup {
			return services.Wrap(services.ErrValidation, "catalog", "validate",
				fmt.Sprintf("duplicate step title %q", step.Title), nil)
		}
		titles[step.Title] = struct{}{}
	}
	deps := make([][]int, len(tpl.Steps))
	for i, step := range tpl.Steps {
		for _, dep := range step.Dependencies {
			idx, err := resolveDependency(tpl.Steps, dep)
			if err != nil {
				return err
			}
			deps[i] = append(deps[i], idx)
		}
	}
	if cycle, ok := findDependencyCycle(deps); ok {
		return services.Wrap(services.ErrValidation, "catalog", "validate",
			fmt.Sprintf("step %q is part of a dependency cycle", tpl.Steps[cycle].Title), nil)
	}
	return nil
}

// findDependencyCycle walks the dependency graph depth-first and returns a
// step index that depends, directly or transitively, on itself.
func findDependencyCycle(deps [][]int) (int, bool) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(deps))
	var visit func(int) (int, bool)
	visit = func(n int) (int, bool) {
		state[n] = visiting
		for _, m := range deps[n] {
			switch state[m] {
			case visiting:
				return m, true
			case unvisited:
				if c, ok := visit(m); ok {
					return c, true
				}
			}
		}
		state[n] = done
		return 0, false
	}
	for n := range deps {
		if state[n] == unvisited {
			if c, ok := visit(n); ok {
				return c, true
			}
		}
	}
	return 0, false
}

// resolveDependency maps a dependency reference (step title or 1-based
// index) to the index of the step it names.
func resolveDependency(steps []StepSpec, dep string) (int, error) {
	dep = strings.TrimSpace(dep)
	for i, step := range steps {
		if step.Title == dep {
			return i, nil
		}
	}
	if idx, err := strconv.Atoi(dep); err == nil && idx >= 1 && idx <= len(steps) {
		return idx - 1, nil
	}
	return -1, services.Wrap(services.ErrDependencyMissing, "catalog", "resolve dependency",
		fmt.Sprintf("%q names no step", dep), nil)
}
