package weapon

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/systems/bullet"
	"github.com/zeusync/gallery/internal/core/systems/physics"
)

var (
	ErrUnknownType = errors.New("weapon: unknown projectile type")
	ErrNoTypes     = errors.New("weapon: no projectile types")
)

// Spawner launches projectiles. session.Session implements it for callers on
// other goroutines; SweepSpawner serves the owner goroutine directly.
type Spawner interface {
	Spawn(ctx context.Context, typeName string, origin physics.Transform) (bullet.State, bool, error)
}

// SweepSpawner adapts a Sweep for use on its owner goroutine.
type SweepSpawner struct {
	Sweep *bullet.Sweep
}

func (s SweepSpawner) Spawn(_ context.Context, typeName string, origin physics.Transform) (bullet.State, bool, error) {
	proj := s.Sweep.Spawn(typeName, origin)
	if proj == nil {
		return bullet.State{}, false, nil
	}
	return proj.State(), true, nil
}

type Options struct {
	Types      []string `yaml:"types"`
	ActiveType string   `yaml:"active_type"`
	// Cycle switches to the next type after every shot.
	Cycle bool `yaml:"cycle"`
}

// Shooter fires the active projectile type along its aim.
type Shooter struct {
	log    log.Log
	types  []string
	active int
	cycle  bool
	aim    physics.Transform
	shots  uint64
}

func NewShooter(opts Options, logger log.Log) (*Shooter, error) {
	if len(opts.Types) == 0 {
		return nil, ErrNoTypes
	}
	s := &Shooter{
		log:   logger.Named("shooter"),
		types: slices.Clone(opts.Types),
		cycle: opts.Cycle,
		aim:   physics.NewTransform(physics.Vec3{}),
	}
	if opts.ActiveType != "" {
		if err := s.SetActiveType(opts.ActiveType); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Aim sets the origin and direction of the next shots.
func (s *Shooter) Aim(t physics.Transform) { s.aim = t }

func (s *Shooter) ActiveType() string { return s.types[s.active] }
func (s *Shooter) Shots() uint64      { return s.shots }

func (s *Shooter) SetActiveType(name string) error {
	i := slices.Index(s.types, name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	s.active = i
	return nil
}

// Shoot fires one projectile. A spawner that does not know the active type
// yields ErrUnknownType.
func (s *Shooter) Shoot(ctx context.Context, spawner Spawner) (bullet.State, error) {
	typeName := s.ActiveType()
	st, ok, err := spawner.Spawn(ctx, typeName, s.aim)
	if err != nil {
		return bullet.State{}, err
	}
	if !ok {
		return bullet.State{}, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	s.shots++
	if s.cycle {
		s.active = (s.active + 1) % len(s.types)
	}
	s.log.Debug("shot fired",
		log.String("type", typeName),
		log.Int("slot", st.Slot),
		log.Uint64("shots", s.shots),
	)
	return st, nil
}
