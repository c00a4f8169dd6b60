package weapon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/systems/bullet"
	"github.com/zeusync/gallery/internal/core/systems/physics"
)

func newSweep(t *testing.T, names ...string) *bullet.Sweep {
	t.Helper()
	s := bullet.NewSweep(bullet.DefaultOptions(), log.NewNop(), nil)
	box := physics.NewBox3FromCenter(physics.Vec3{}, physics.V3(0.1, 0.1, 0.1))
	for _, name := range names {
		require.NoError(t, s.RegisterType(bullet.TypeSpec{Name: name, PoolSize: 2, Damage: 1, Speed: 5, MaxLifetime: 1}, box))
	}
	return s
}

func TestNewShooterValidation(t *testing.T) {
	_, err := NewShooter(Options{}, log.NewNop())
	assert.ErrorIs(t, err, ErrNoTypes)

	_, err = NewShooter(Options{Types: []string{"normal"}, ActiveType: "laser"}, log.NewNop())
	assert.ErrorIs(t, err, ErrUnknownType)

	s, err := NewShooter(Options{Types: []string{"normal", "fast"}, ActiveType: "fast"}, log.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "fast", s.ActiveType())
}

func TestShootUsesAim(t *testing.T) {
	sweep := newSweep(t, "normal")
	s, err := NewShooter(Options{Types: []string{"normal"}}, log.NewNop())
	require.NoError(t, err)

	s.Aim(physics.Transform{Position: physics.V3(1, 2, 3), Forward: physics.V3(1, 0, 0)})
	st, err := s.Shoot(context.Background(), SweepSpawner{Sweep: sweep})
	require.NoError(t, err)

	assert.Equal(t, "normal", st.Type)
	assert.Equal(t, physics.V3(1, 2, 3), st.Position)
	assert.InDelta(t, 5.0, st.Direction.X, 1e-9)
	assert.Equal(t, uint64(1), s.Shots())
	assert.Equal(t, 1, sweep.Pool().ActiveCount("normal"))
}

func TestShootCyclesTypes(t *testing.T) {
	sweep := newSweep(t, "a", "b", "c")
	s, err := NewShooter(Options{Types: []string{"a", "b", "c"}, Cycle: true}, log.NewNop())
	require.NoError(t, err)

	var fired []string
	for i := 0; i < 4; i++ {
		st, err := s.Shoot(context.Background(), SweepSpawner{Sweep: sweep})
		require.NoError(t, err)
		fired = append(fired, st.Type)
	}
	assert.Equal(t, []string{"a", "b", "c", "a"}, fired)
}

func TestShootUnregisteredType(t *testing.T) {
	sweep := newSweep(t, "a")
	s, err := NewShooter(Options{Types: []string{"ghost"}}, log.NewNop())
	require.NoError(t, err)

	_, err = s.Shoot(context.Background(), SweepSpawner{Sweep: sweep})
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, uint64(0), s.Shots())
}

type failingSpawner struct{ err error }

func (f failingSpawner) Spawn(context.Context, string, physics.Transform) (bullet.State, bool, error) {
	return bullet.State{}, false, f.err
}

func TestShootPropagatesSpawnerError(t *testing.T) {
	s, err := NewShooter(Options{Types: []string{"a"}, Cycle: true}, log.NewNop())
	require.NoError(t, err)

	boom := errors.New("closed")
	_, err = s.Shoot(context.Background(), failingSpawner{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "a", s.ActiveType())
}
