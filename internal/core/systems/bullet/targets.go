package bullet

import (
	"github.com/zeusync/gallery/internal/core/systems/physics"
)

// Target is a damageable scene entity owned by an external collaborator.
type Target interface {
	Name() string
	// Bounds returns the current world-space bounding box.
	Bounds() physics.Box3
	// Active and Visible are read fresh on every sweep.
	Active() bool
	Visible() bool
	// OnBulletHit delivers the damage of the projectile that hit the target.
	OnBulletHit(damage float64)
}

// Eligible reports whether t takes part in the current sweep.
func Eligible(t Target) bool {
	return t.Active() && t.Visible()
}

type targetEntry struct {
	target Target
	static bool
	box    physics.Box3 // cached at registration when static
}

func (e *targetEntry) bounds() physics.Box3 {
	if e.static {
		return e.box
	}
	return e.target.Bounds()
}

// Registry is the append-only list of sweep targets.
type Registry struct {
	entries []*targetEntry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends t. Duplicates are kept. A static target has its bounds
// computed now and never again, so it must not move afterwards.
func (r *Registry) Register(t Target, isStatic bool) {
	if t == nil {
		return
	}
	e := &targetEntry{target: t, static: isStatic}
	if isStatic {
		e.box = t.Bounds()
	}
	r.entries = append(r.entries, e)
}

func (r *Registry) Len() int { return len(r.entries) }

// Targets returns the registered targets in registration order.
func (r *Registry) Targets() []Target {
	out := make([]Target, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.target
	}
	return out
}

// BoundsAt returns the box the sweep would test for the i-th registration.
func (r *Registry) BoundsAt(i int) (physics.Box3, bool) {
	if i < 0 || i >= len(r.entries) {
		return physics.Box3{}, false
	}
	return r.entries[i].bounds(), true
}

// firstHit returns the first eligible entry overlapping box, in registration order.
func (r *Registry) firstHit(box physics.Box3) *targetEntry {
	for _, e := range r.entries {
		if !Eligible(e.target) {
			continue
		}
		if e.bounds().Intersects(box) {
			return e
		}
	}
	return nil
}
