package models

import (
	"fmt"

	"github.com/zeusync/gallery/internal/core/systems/physics"
)

// TargetConfig describes a damageable box in the scene.
type TargetConfig struct {
	Name     string       `yaml:"name"`
	Position physics.Vec3 `yaml:"position"`
	Size     physics.Vec3 `yaml:"size"`
	Health   float64      `yaml:"health"`
	Static   bool         `yaml:"static"`
	Inactive bool         `yaml:"inactive"`
	Hidden   bool         `yaml:"hidden"`
}

func (c TargetConfig) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidTarget)
	case c.Size.X <= 0 || c.Size.Y <= 0 || c.Size.Z <= 0:
		return fmt.Errorf("%w: %s: size must be positive on every axis", ErrInvalidTarget, c.Name)
	case c.Health < 0:
		return fmt.Errorf("%w: %s: negative health", ErrInvalidTarget, c.Name)
	}
	return nil
}

// Target is an axis-aligned box that soaks up projectile damage.
// Health may go below zero; nothing reacts to it here.
type Target struct {
	name      string
	position  physics.Vec3
	size      physics.Vec3
	maxHealth float64
	health    float64
	static    bool
	active    bool
	visible   bool
	hits      int
}

func NewTarget(cfg TargetConfig) (*Target, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Target{
		name:      cfg.Name,
		position:  cfg.Position,
		size:      cfg.Size,
		maxHealth: cfg.Health,
		health:    cfg.Health,
		static:    cfg.Static,
		active:    !cfg.Inactive,
		visible:   !cfg.Hidden,
	}, nil
}

func (t *Target) Name() string { return t.name }

// Bounds is the world-space box around the current position.
func (t *Target) Bounds() physics.Box3 {
	return physics.NewBox3FromCenter(t.position, t.size)
}

func (t *Target) Active() bool  { return t.active }
func (t *Target) Visible() bool { return t.visible }
func (t *Target) Static() bool  { return t.static }

func (t *Target) SetActive(active bool)   { t.active = active }
func (t *Target) SetVisible(visible bool) { t.visible = visible }

// SetPosition moves the target. Registered static targets keep their old box.
func (t *Target) SetPosition(p physics.Vec3) { t.position = p }
func (t *Target) Position() physics.Vec3     { return t.position }

// OnBulletHit counts every hit but only an active target loses health.
func (t *Target) OnBulletHit(damage float64) {
	t.hits++
	if !t.active {
		return
	}
	t.health -= damage
}

func (t *Target) Health() float64    { return t.health }
func (t *Target) MaxHealth() float64 { return t.maxHealth }
func (t *Target) Hits() int          { return t.hits }

// Destroyed reports whether health has been used up.
func (t *Target) Destroyed() bool { return t.health <= 0 && t.maxHealth > 0 }

// Reset restores full health and clears the hit counter.
func (t *Target) Reset() {
	t.health = t.maxHealth
	t.hits = 0
}
