package bullet

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/zeusync/gallery/internal/core/events/bus"
	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/systems"
	"github.com/zeusync/gallery/internal/core/systems/physics"
	"github.com/zeusync/gallery/pkg/generic"
)

var _ systems.System = (*Sweep)(nil)

const SystemName = "bullet"

// Options tunes the sweep.
type Options struct {
	// DistanceScale converts speed × seconds into scene units.
	DistanceScale float64 `yaml:"distance_scale"`
	// HitQueueSize bounds the outbound event queue drained once per tick.
	HitQueueSize int `yaml:"hit_queue_size"`
	// PublishLifecycle also emits spawned, recycled and expired events.
	PublishLifecycle bool `yaml:"publish_lifecycle"`
}

func DefaultOptions() Options {
	return Options{
		DistanceScale: DefaultDistanceScale,
		HitQueueSize:  64,
	}
}

// Stats are cumulative counters since the sweep was created.
type Stats struct {
	Spawned  uint64
	Recycled uint64
	Expired  uint64
	Hits     uint64
	Active   int
}

// LifecycleEvent is the payload of projectile.* events.
type LifecycleEvent struct {
	Projectile State
}

// Sweep owns the projectile pool and the target registry and runs the
// per-frame collision pass. It is a systems.System.
type Sweep struct {
	opts    Options
	log     log.Log
	bus     bus.EventBus
	pool    *Pool
	targets *Registry
	queue   *generic.Ring[bus.Event]
	pending error // publish errors collected by early flushes during a tick

	enabled     bool
	lastTime    float64
	stats       Stats
	metrics     systems.Metrics
	instruments instruments
}

func NewSweep(opts Options, logger log.Log, eventBus bus.EventBus) *Sweep {
	return NewSweepWithMeter(opts, logger, eventBus, defaultMeter())
}

func NewSweepWithMeter(opts Options, logger log.Log, eventBus bus.EventBus, meter metric.Meter) *Sweep {
	defaults := DefaultOptions()
	if opts.DistanceScale <= 0 {
		opts.DistanceScale = defaults.DistanceScale
	}
	if opts.HitQueueSize <= 0 {
		opts.HitQueueSize = defaults.HitQueueSize
	}
	logger = logger.Named(SystemName)

	in, err := newInstruments(meter)
	if err != nil {
		logger.Warn("projectile instruments unavailable", log.Error(err))
	}

	return &Sweep{
		opts:        opts,
		log:         logger,
		bus:         eventBus,
		pool:        NewPool(logger, opts.DistanceScale),
		targets:     NewRegistry(),
		queue:       generic.NewRing[bus.Event](opts.HitQueueSize),
		enabled:     true,
		instruments: in,
	}
}

func (s *Sweep) Name() string                { return SystemName }
func (s *Sweep) Priority() systems.Priority  { return systems.PriorityHigh }
func (s *Sweep) IsEnabled() bool             { return s.enabled }
func (s *Sweep) SetEnabled(enabled bool)     { s.enabled = enabled }
func (s *Sweep) GetMetrics() systems.Metrics { return s.metrics }

func (s *Sweep) Initialize(context.Context) error { return nil }

// Shutdown frees every slot and flushes queued events.
func (s *Sweep) Shutdown(context.Context) error {
	n := s.pool.RetireAll()
	s.log.Debug("sweep shutdown", log.Int("retired", n))
	return s.flush()
}

// Update drives Tick from the systems manager.
func (s *Sweep) Update(frame systems.Frame) error {
	return s.Tick(frame.Time, frame.Delta)
}

func (s *Sweep) Pool() *Pool           { return s.pool }
func (s *Sweep) Targets() *Registry    { return s.targets }
func (s *Sweep) Options() Options      { return s.opts }
func (s *Sweep) LastTickTime() float64 { return s.lastTime }

// RegisterType registers a projectile type; see Pool.Register.
func (s *Sweep) RegisterType(spec TypeSpec, shape physics.Shape) error {
	return s.pool.Register(spec, shape)
}

// RegisterTarget registers a target; see Registry.Register.
func (s *Sweep) RegisterTarget(t Target, isStatic bool) {
	s.targets.Register(t, isStatic)
	if t != nil {
		s.log.Debug("target registered", log.String("target", t.Name()), log.Bool("static", isStatic))
	}
}

// Spawn launches a projectile of typeName from origin, or returns nil when the
// type is unknown.
func (s *Sweep) Spawn(typeName string, origin physics.Transform) *Projectile {
	proj, recycled := s.pool.spawn(typeName, origin)
	if proj == nil {
		s.log.Debug("spawn of unregistered projectile type", log.String("type", typeName))
		return nil
	}
	s.stats.Spawned++
	s.instruments.add(s.instruments.spawned, typeName)
	if recycled {
		s.stats.Recycled++
		s.instruments.add(s.instruments.recycled, typeName)
		s.lifecycle(bus.EventProjectileRecycled, proj)
	}
	s.lifecycle(bus.EventProjectileSpawned, proj)
	return proj
}

// Retire frees proj; safe on nil and on retired projectiles.
func (s *Sweep) Retire(proj *Projectile) {
	s.pool.Retire(proj)
}

// Tick runs one simulation step: every active projectile is aged, expired or
// moved, then tested against eligible targets in registration order. The first
// overlapping target takes the hit and the projectile is retired. Queued events
// are published before Tick returns; handler errors are joined into the result.
// A handler may spawn during Tick; the new projectile starts moving next tick.
func (s *Sweep) Tick(now, dt float64) error {
	start := time.Now()
	s.lastTime = now
	var processed uint64

	pass := s.pool.beginPass()
	s.pool.each(func(proj *Projectile) {
		// spawned by a handler during an early flush of this pass
		if proj.pass == pass {
			return
		}
		processed++
		if !s.pool.step(proj, dt) {
			s.expire(proj)
			return
		}
		if entry := s.targets.firstHit(proj.Bounds()); entry != nil {
			s.hit(proj, entry.target)
		}
	})

	err := s.flush()
	s.metrics.Record(time.Since(start), processed, err)
	if err != nil {
		s.log.Warn("hit delivery failed", log.Error(err))
	}
	return err
}

func (s *Sweep) expire(proj *Projectile) {
	s.stats.Expired++
	s.instruments.add(s.instruments.expired, proj.TypeName())
	s.lifecycle(bus.EventProjectileExpired, proj)
}

func (s *Sweep) hit(proj *Projectile, target Target) {
	s.pool.Retire(proj)
	s.stats.Hits++
	s.instruments.add(s.instruments.hits, proj.TypeName())

	target.OnBulletHit(proj.Damage())
	s.enqueue(bus.NewEvent(bus.EventHit, target.Name(), nil))

	s.log.Debug("projectile hit",
		log.String("target", target.Name()),
		log.String("type", proj.TypeName()),
		log.Int("slot", proj.Slot()),
		log.Float64("damage", proj.Damage()),
	)
}

func (s *Sweep) lifecycle(eventType string, proj *Projectile) {
	if !s.opts.PublishLifecycle {
		return
	}
	s.enqueue(bus.NewEvent(eventType, proj.TypeName(), LifecycleEvent{Projectile: proj.State()}))
}

// enqueue keeps event order: a full queue is flushed before the new event goes in.
func (s *Sweep) enqueue(ev bus.Event) {
	if s.queue.Push(ev) {
		return
	}
	s.pending = errors.Join(s.pending, s.publishQueued())
	s.queue.Push(ev)
}

func (s *Sweep) flush() error {
	err := errors.Join(s.pending, s.publishQueued())
	s.pending = nil
	return err
}

func (s *Sweep) publishQueued() error {
	var all error
	s.queue.Drain(func(ev bus.Event) {
		if s.bus == nil {
			return
		}
		if err := s.bus.Publish(ev); err != nil {
			all = errors.Join(all, err)
		}
	})
	return all
}

// Stats returns counters including the current number of active projectiles.
func (s *Sweep) Stats() Stats {
	out := s.stats
	out.Active = s.pool.ActiveCount("")
	return out
}
