package bullet

import (
	"github.com/zeusync/gallery/internal/core/events/bus"
	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/systems/physics"
)

type fakeTarget struct {
	name    string
	box     physics.Box3
	active  bool
	visible bool
	hits    int
	damage  float64
}

func newFakeTarget(name string, box physics.Box3) *fakeTarget {
	return &fakeTarget{name: name, box: box, active: true, visible: true}
}

func (f *fakeTarget) Name() string         { return f.name }
func (f *fakeTarget) Bounds() physics.Box3 { return f.box }
func (f *fakeTarget) Active() bool         { return f.active }
func (f *fakeTarget) Visible() bool        { return f.visible }

func (f *fakeTarget) OnBulletHit(damage float64) {
	f.hits++
	f.damage += damage
}

// recorder subscribes to every event type the sweep emits.
type recorder struct {
	events []bus.Event
}

func newRecorder(b bus.EventBus) *recorder {
	r := &recorder{}
	for _, typ := range []string{
		bus.EventHit,
		bus.EventProjectileSpawned,
		bus.EventProjectileRecycled,
		bus.EventProjectileExpired,
	} {
		_, _ = b.Subscribe(typ, func(e bus.Event) error {
			r.events = append(r.events, e)
			return nil
		})
	}
	return r
}

func (r *recorder) types() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func cube(size float64) physics.Box3 {
	return physics.NewBox3FromCenter(physics.Vec3{}, physics.V3(size, size, size))
}

func newTestPool() *Pool {
	return NewPool(log.NewNop(), DefaultDistanceScale)
}

func newTestSweep(opts Options) (*Sweep, *recorder) {
	b := bus.New()
	return NewSweep(opts, log.NewNop(), b), newRecorder(b)
}

var normal = TypeSpec{Name: "normal", PoolSize: 2, Damage: 1, Speed: 5, MaxLifetime: 1}
