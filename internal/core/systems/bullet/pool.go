package bullet

import (
	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/systems/physics"
)

// DefaultDistanceScale converts speed × seconds into scene units.
// It is a tuning constant, not a physical one.
const DefaultDistanceScale = 1000.0 / 850.0

type typePool struct {
	typ   *projectileType
	slots []Projectile
}

// Pool owns the fixed-size slot rings of every registered projectile type.
type Pool struct {
	log           log.Log
	distanceScale float64
	pools         map[string]*typePool
	order         []string // registration order, used for deterministic sweeps
	pass          uint64   // bumped by beginPass; stamped on every spawn
}

func NewPool(logger log.Log, distanceScale float64) *Pool {
	if distanceScale <= 0 {
		distanceScale = DefaultDistanceScale
	}
	return &Pool{
		log:           logger,
		distanceScale: distanceScale,
		pools:         make(map[string]*typePool),
	}
}

// Register allocates spec.PoolSize inactive projectiles for spec.Name.
// A nil shape means the prototype geometry has not loaded yet: the call is a
// no-op and the caller is expected to register again once it has.
// Registering an existing name replaces its pool.
func (p *Pool) Register(spec TypeSpec, shape physics.Shape) error {
	if shape == nil {
		p.log.Debug("projectile type skipped, shape not ready", log.String("type", spec.Name))
		return nil
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	typ := newProjectileType(spec, shape)
	tp := &typePool{typ: typ, slots: make([]Projectile, spec.PoolSize)}
	for i := range tp.slots {
		tp.slots[i] = Projectile{
			typ:       typ,
			slot:      i,
			direction: physics.Forward,
		}
	}

	if _, exists := p.pools[spec.Name]; !exists {
		p.order = append(p.order, spec.Name)
	}
	p.pools[spec.Name] = tp

	p.log.Info("projectile type registered",
		log.String("type", spec.Name),
		log.Int("pool_size", spec.PoolSize),
		log.Float64("damage", spec.Damage),
		log.Float64("speed", spec.Speed),
		log.Float64("max_lifetime", spec.MaxLifetime),
	)
	return nil
}

// Spawn claims a slot of typeName and launches it from origin.
// It returns nil when typeName is not registered.
func (p *Pool) Spawn(typeName string, origin physics.Transform) *Projectile {
	proj, _ := p.spawn(typeName, origin)
	return proj
}

// spawn picks the first free slot; with none free it recycles the active slot
// with the greatest age. Ties keep the lowest slot.
func (p *Pool) spawn(typeName string, origin physics.Transform) (*Projectile, bool) {
	tp, ok := p.pools[typeName]
	if !ok {
		return nil, false
	}

	oldest := 0
	oldestAge := 0.0
	claimed := -1
	for i := range tp.slots {
		if !tp.slots[i].active {
			claimed = i
			break
		}
		if tp.slots[i].age > oldestAge {
			oldest = i
			oldestAge = tp.slots[i].age
		}
	}
	recycled := claimed < 0
	if recycled {
		claimed = oldest
	}

	proj := &tp.slots[claimed]
	proj.position = origin.Position
	proj.direction = origin.Direction().Scale(tp.typ.spec.Speed)
	proj.age = 0
	proj.active = true
	proj.pass = p.pass
	return proj, recycled
}

// Advance ages and moves every active projectile by dt seconds and returns how
// many of them expired.
func (p *Pool) Advance(dt float64) int {
	expired := 0
	p.each(func(proj *Projectile) {
		if !p.step(proj, dt) {
			expired++
		}
	})
	return expired
}

// step advances one active projectile and reports whether it is still active.
func (p *Pool) step(proj *Projectile, dt float64) bool {
	if !(dt > 0) { // negative or NaN
		dt = 0
	}
	proj.age += dt
	if proj.age >= proj.typ.spec.MaxLifetime {
		proj.active = false
		return false
	}
	proj.position = proj.position.Add(proj.direction.Scale(dt * p.distanceScale))
	return true
}

// Retire marks proj free. Safe on nil and on already retired projectiles.
func (p *Pool) Retire(proj *Projectile) {
	if proj == nil {
		return
	}
	proj.active = false
}

// RetireAll frees every slot of every type.
func (p *Pool) RetireAll() int {
	n := 0
	p.each(func(proj *Projectile) {
		proj.active = false
		n++
	})
	return n
}

// each visits active projectiles, types in registration order and slots in order.
func (p *Pool) each(fn func(*Projectile)) {
	for _, name := range p.order {
		tp := p.pools[name]
		for i := range tp.slots {
			if tp.slots[i].active {
				fn(&tp.slots[i])
			}
		}
	}
}

// beginPass starts a sweep pass. Projectiles spawned while the pass runs carry
// its number and are left alone until the next one.
func (p *Pool) beginPass() uint64 {
	p.pass++
	return p.pass
}

// Projectiles returns the slots of typeName in slot order, or nil.
func (p *Pool) Projectiles(typeName string) []*Projectile {
	tp, ok := p.pools[typeName]
	if !ok {
		return nil
	}
	out := make([]*Projectile, len(tp.slots))
	for i := range tp.slots {
		out[i] = &tp.slots[i]
	}
	return out
}

func (p *Pool) Types() []string {
	return append([]string(nil), p.order...)
}

func (p *Pool) Has(typeName string) bool {
	_, ok := p.pools[typeName]
	return ok
}

// Capacity is the slot count of typeName, zero when unknown.
func (p *Pool) Capacity(typeName string) int {
	if tp, ok := p.pools[typeName]; ok {
		return len(tp.slots)
	}
	return 0
}

// ActiveCount counts active projectiles of typeName, or of every type when
// typeName is empty.
func (p *Pool) ActiveCount(typeName string) int {
	n := 0
	p.each(func(proj *Projectile) {
		if typeName == "" || proj.typ.spec.Name == typeName {
			n++
		}
	})
	return n
}
