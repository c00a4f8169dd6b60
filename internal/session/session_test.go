package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/gallery/internal/core/events/bus"
	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/systems/bullet"
	"github.com/zeusync/gallery/internal/core/systems/physics"
)

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	b := bus.New()
	sweep := bullet.NewSweep(bullet.DefaultOptions(), log.NewNop(), b)
	box := physics.NewBox3FromCenter(physics.Vec3{}, physics.V3(0.1, 0.1, 0.1))
	require.NoError(t, sweep.RegisterType(bullet.TypeSpec{Name: "normal", PoolSize: 2, Damage: 1, Speed: 5, MaxLifetime: 10}, box))
	s, err := New(opts, log.NewNop(), b, sweep)
	require.NoError(t, err)
	return s
}

func TestNewAppliesDefaults(t *testing.T) {
	s := newTestSession(t, Options{RequestBuffer: -1})
	assert.Equal(t, 60, s.Options().TickRate)
	assert.Equal(t, 0, s.Options().RequestBuffer)
	assert.Equal(t, []string{bullet.SystemName}, s.Manager().GetExecutionOrder())
	assert.NotEmpty(t, s.ID())
}

func TestStepDrivesSweep(t *testing.T) {
	s := newTestSession(t, DefaultOptions())
	proj := s.Sweep().Spawn("normal", physics.NewTransform(physics.Vec3{}))
	require.NotNil(t, proj)

	require.NoError(t, s.Step(0.5))
	require.NoError(t, s.Step(0.25))

	assert.InDelta(t, 0.75, proj.Age(), 1e-9)
	assert.Equal(t, uint64(2), s.Frame().Count)
	assert.InDelta(t, 0.75, s.Frame().Time, 1e-9)
}

func TestRunServesSpawnRequests(t *testing.T) {
	s := newTestSession(t, Options{TickRate: 200, RequestBuffer: 4})
	ctx, cancel := context.WithCancel(context.Background())

	var g errgroup.Group
	g.Go(func() error { return s.Run(ctx) })

	st, ok, err := s.Spawn(ctx, "normal", physics.NewTransform(physics.V3(0, 0, 1)))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "normal", st.Type)
	assert.Equal(t, 0, st.Slot)

	_, ok, err = s.Spawn(ctx, "laser", physics.NewTransform(physics.Vec3{}))
	require.NoError(t, err)
	assert.False(t, ok)

	require.Eventually(t, func() bool {
		var moved bool
		_ = s.Do(ctx, func(sw *bullet.Sweep) {
			moved = sw.Pool().Projectiles("normal")[0].Age() > 0
		})
		return moved
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, g.Wait())

	<-s.Done()
	assert.Equal(t, 0, s.Sweep().Pool().ActiveCount(""), "shutdown retires every projectile")
}

func TestClosedSessionRejectsRequests(t *testing.T) {
	s := newTestSession(t, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Run(ctx))

	_, _, err := s.Spawn(context.Background(), "normal", physics.NewTransform(physics.Vec3{}))
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, s.Run(context.Background()), ErrAlreadyRunning)
}

func TestDoHonoursContext(t *testing.T) {
	s := newTestSession(t, Options{TickRate: 60, RequestBuffer: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Do(ctx, func(*bullet.Sweep) {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTimedOutSpawnNeverLaunches(t *testing.T) {
	s := newTestSession(t, Options{TickRate: 60, RequestBuffer: 4})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g errgroup.Group
	g.Go(func() error { return s.Run(ctx) })

	busy := make(chan struct{})
	release := make(chan struct{})
	g.Go(func() error {
		return s.Do(ctx, func(*bullet.Sweep) {
			close(busy)
			<-release
		})
	})
	<-busy

	spawnCtx, spawnCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer spawnCancel()
	_, ok, err := s.Spawn(spawnCtx, "normal", physics.NewTransform(physics.Vec3{}))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ok)

	close(release)
	var active int
	require.NoError(t, s.Do(ctx, func(sw *bullet.Sweep) {
		active = sw.Stats().Active
	}))
	assert.Equal(t, 0, active, "an abandoned spawn must not fire")

	cancel()
	require.NoError(t, g.Wait())
}
