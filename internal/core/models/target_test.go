package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/gallery/internal/core/systems/bullet"
	"github.com/zeusync/gallery/internal/core/systems/physics"
)

var _ bullet.Target = (*Target)(nil)

func TestTargetConfigValidate(t *testing.T) {
	ok := TargetConfig{Name: "a", Size: physics.V3(1, 1, 1), Health: 1}
	require.NoError(t, ok.Validate())

	bad := []TargetConfig{
		{Size: physics.V3(1, 1, 1)},
		{Name: "flat", Size: physics.V3(1, 0, 1)},
		{Name: "neg", Size: physics.V3(1, 1, 1), Health: -1},
	}
	for _, cfg := range bad {
		_, err := NewTarget(cfg)
		assert.ErrorIs(t, err, ErrInvalidTarget, cfg.Name)
	}
}

func TestTargetBoundsAndFlags(t *testing.T) {
	tg, err := NewTarget(TargetConfig{
		Name:     "button-a",
		Position: physics.V3(0, 1, -3),
		Size:     physics.V3(0.5, 0.5, 0.2),
		Health:   1,
		Static:   true,
		Hidden:   true,
	})
	require.NoError(t, err)

	box := tg.Bounds()
	assert.Equal(t, physics.V3(0, 1, -3), box.Center())
	assert.InDelta(t, 0.5, box.Size().X, 1e-9)
	assert.True(t, tg.Static())
	assert.True(t, tg.Active())
	assert.False(t, tg.Visible())
	assert.False(t, bullet.Eligible(tg))

	tg.SetVisible(true)
	assert.True(t, bullet.Eligible(tg))

	tg.SetPosition(physics.V3(2, 0, 0))
	assert.Equal(t, physics.V3(2, 0, 0), tg.Bounds().Center())
}

func TestTargetDamageOnlyWhenActive(t *testing.T) {
	tg, err := NewTarget(TargetConfig{Name: "dummy", Size: physics.V3(1, 1, 1), Health: 3})
	require.NoError(t, err)

	tg.OnBulletHit(1)
	assert.Equal(t, 2.0, tg.Health())

	tg.SetActive(false)
	tg.OnBulletHit(1)
	assert.Equal(t, 2.0, tg.Health())
	assert.Equal(t, 2, tg.Hits())

	tg.SetActive(true)
	tg.OnBulletHit(5)
	assert.Equal(t, -3.0, tg.Health())
	assert.True(t, tg.Destroyed())

	tg.Reset()
	assert.Equal(t, 3.0, tg.Health())
	assert.Equal(t, 0, tg.Hits())
	assert.False(t, tg.Destroyed())
}
