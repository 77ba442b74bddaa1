package material

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"mad-sand/pkg/core"
)

var (
	// ErrInvalidID is returned when registering a nil material or the air id.
	ErrInvalidID = errors.New("invalid material id")
	// ErrDuplicateID is returned when an id is registered twice.
	ErrDuplicateID = errors.New("material id already registered")
	// ErrFrozen is returned when registering after simulation has started.
	ErrFrozen = errors.New("registry is frozen")
)

// Registry maps sparse material ids to their behaviours. It is filled once at
// start-up and read-only afterwards; it is not safe for concurrent writes.
type Registry struct {
	byID   map[ID]Material
	frozen bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[ID]Material)}
}

// Register adds m under its id.
func (r *Registry) Register(m Material) error {
	if m == nil {
		return ErrInvalidID
	}
	if d, ok := m.(*Def); ok && d == nil {
		return ErrInvalidID
	}
	id := m.ID()
	if id == Air {
		return fmt.Errorf("material %d (%s): %w", id, m.Name(), ErrInvalidID)
	}
	if r.frozen {
		return fmt.Errorf("material %d (%s): %w", id, m.Name(), ErrFrozen)
	}
	if prev, ok := r.byID[id]; ok {
		return fmt.Errorf("material %d (%s, have %s): %w", id, m.Name(), prev.Name(), ErrDuplicateID)
	}
	r.byID[id] = m
	return nil
}

// Freeze rejects further registrations.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen }

// Lookup returns the material registered under id.
func (r *Registry) Lookup(id ID) (Material, bool) {
	if id == Air {
		return nil, false
	}
	m, ok := r.byID[id]
	return m, ok
}

// Density returns the declared density for id. Air is 0 and unknown ids are
// treated as immovable so nothing sinks into them.
func (r *Registry) Density(id ID) float64 {
	if id == Air {
		return 0
	}
	m, ok := r.byID[id]
	if !ok {
		return math.Inf(1)
	}
	return m.Density()
}

// Color returns the presentation colour for id, transparent when unknown.
func (r *Registry) Color(id ID) core.Pixel {
	m, ok := r.Lookup(id)
	if !ok {
		return core.Transparent
	}
	return m.Color()
}

// Name returns the material name, or "air"/"unknown".
func (r *Registry) Name(id ID) string {
	if id == Air {
		return "air"
	}
	m, ok := r.byID[id]
	if !ok {
		return "unknown"
	}
	return m.Name()
}

// Dispatch runs the behaviour for id at (x, y). Air and unknown ids are no-ops.
// It reports whether a behaviour ran.
func (r *Registry) Dispatch(id ID, x, y int, w World) bool {
	if id == Air {
		return false
	}
	m, ok := r.byID[id]
	if !ok {
		return false
	}
	m.Update(x, y, w)
	return true
}

// IDs lists registered ids in ascending order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered materials.
func (r *Registry) Len() int { return len(r.byID) }

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry populated by init-time
// registrations.
func Default() *Registry { return defaultRegistry }

// Register adds m to the default registry and panics on failure. It is meant
// to be called from package init functions.
func Register(m Material) {
	if err := defaultRegistry.Register(m); err != nil {
		panic(err)
	}
}
