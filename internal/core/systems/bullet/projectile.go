package bullet

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/gallery/internal/core/systems/physics"
)

// TypeSpec is the immutable template of a projectile type.
type TypeSpec struct {
	Name        string  `yaml:"name"`
	PoolSize    int     `yaml:"pool_size"`
	Damage      float64 `yaml:"damage"`
	Speed       float64 `yaml:"speed"`
	MaxLifetime float64 `yaml:"max_lifetime"` // seconds
}

func (s TypeSpec) Validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidType)
	case s.PoolSize < 1:
		return fmt.Errorf("%w: %s: pool size %d", ErrInvalidType, s.Name, s.PoolSize)
	case s.Damage < 0:
		return fmt.Errorf("%w: %s: negative damage", ErrInvalidType, s.Name)
	case s.Speed < 0:
		return fmt.Errorf("%w: %s: negative speed", ErrInvalidType, s.Name)
	case s.MaxLifetime <= 0:
		return fmt.Errorf("%w: %s: max lifetime must be positive", ErrInvalidType, s.Name)
	}
	return nil
}

// projectileType is a registered TypeSpec plus the bounds of its prototype shape.
type projectileType struct {
	spec   TypeSpec
	bounds physics.Box3
	hash   uint64
}

// Projectile is one pooled slot. The pool owns it; callers may read it and
// hand it back to Retire but must not keep it across a re-registration of its type.
type Projectile struct {
	typ       *projectileType
	slot      int
	position  physics.Vec3
	direction physics.Vec3 // forward axis scaled by speed
	age       float64
	active    bool
	pass      uint64 // pool pass the projectile was spawned in
}

// ID is stable for a (type name, slot) pair across recycles.
func (p *Projectile) ID() uint64 { return p.typ.hash ^ uint64(p.slot) }

func (p *Projectile) TypeName() string        { return p.typ.spec.Name }
func (p *Projectile) Slot() int               { return p.slot }
func (p *Projectile) Position() physics.Vec3  { return p.position }
func (p *Projectile) Direction() physics.Vec3 { return p.direction }
func (p *Projectile) Speed() float64          { return p.typ.spec.Speed }
func (p *Projectile) Age() float64            { return p.age }
func (p *Projectile) Active() bool            { return p.active }
func (p *Projectile) Damage() float64         { return p.typ.spec.Damage }
func (p *Projectile) MaxLifetime() float64    { return p.typ.spec.MaxLifetime }

// Bounds is the prototype box translated to the live position.
func (p *Projectile) Bounds() physics.Box3 {
	return p.typ.bounds.Translate(p.position)
}

// State is a value snapshot of a projectile, safe to pass between goroutines.
type State struct {
	ID        uint64
	Type      string
	Slot      int
	Position  physics.Vec3
	Direction physics.Vec3
	Age       float64
	Active    bool
	Damage    float64
}

func (p *Projectile) State() State {
	return State{
		ID:        p.ID(),
		Type:      p.TypeName(),
		Slot:      p.slot,
		Position:  p.position,
		Direction: p.direction,
		Age:       p.age,
		Active:    p.active,
		Damage:    p.Damage(),
	}
}

func newProjectileType(spec TypeSpec, shape physics.Shape) *projectileType {
	return &projectileType{
		spec:   spec,
		bounds: shape.Bounds(),
		hash:   xxhash.Sum64String(spec.Name),
	}
}
