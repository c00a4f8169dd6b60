package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/gallery/internal/core/models"
	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/systems/bullet"
	"github.com/zeusync/gallery/internal/core/systems/physics"
	"github.com/zeusync/gallery/internal/core/weapon"
	"github.com/zeusync/gallery/internal/quiz"
	"github.com/zeusync/gallery/internal/session"
)

// Config is the whole gallery scene plus runtime tuning.
type Config struct {
	Log         log.Config            `yaml:"log"`
	Sweep       bullet.Options        `yaml:"sweep"`
	Session     session.Options       `yaml:"session"`
	Projectiles []Projectile          `yaml:"projectiles"`
	Targets     []models.TargetConfig `yaml:"targets"`
	Shooter     weapon.Options        `yaml:"shooter"`
	Quiz        *quiz.Config          `yaml:"quiz,omitempty"`
}

// Projectile is a projectile type with the size of its prototype box.
type Projectile struct {
	bullet.TypeSpec `yaml:",inline"`
	Size            physics.Vec3 `yaml:"size"`
}

// Shape is the local-space prototype box centered on the origin.
func (p Projectile) Shape() physics.Box3 {
	return physics.NewBox3FromCenter(physics.Vec3{}, p.Size)
}

func Default() *Config {
	return &Config{
		Log:     log.DefaultConfig(),
		Sweep:   bullet.DefaultOptions(),
		Session: session.DefaultOptions(),
		Projectiles: []Projectile{{
			TypeSpec: bullet.TypeSpec{Name: "normal", PoolSize: 10, Damage: 1, Speed: 5, MaxLifetime: 2},
			Size:     physics.V3(0.1, 0.1, 0.1),
		}},
		Shooter: weapon.Options{Types: []string{"normal"}, ActiveType: "normal"},
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML on top of Default. Unknown keys are rejected and an empty
// document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.Session.TickRate < 0 {
		return fmt.Errorf("%w: negative tick rate", ErrInvalidConfig)
	}

	var types []string
	for _, p := range c.Projectiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if p.Size.X <= 0 || p.Size.Y <= 0 || p.Size.Z <= 0 {
			return fmt.Errorf("%w: projectile %s: size must be positive", ErrInvalidConfig, p.Name)
		}
		if slices.Contains(types, p.Name) {
			return fmt.Errorf("%w: duplicate projectile %s", ErrInvalidConfig, p.Name)
		}
		types = append(types, p.Name)
	}

	var targets []string
	for _, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		targets = append(targets, t.Name)
	}

	if len(c.Shooter.Types) == 0 {
		return fmt.Errorf("%w: shooter has no projectile types", ErrInvalidConfig)
	}
	for _, name := range c.Shooter.Types {
		if !slices.Contains(types, name) {
			return fmt.Errorf("%w: shooter type %s is not a projectile", ErrInvalidConfig, name)
		}
	}

	if c.Quiz != nil {
		if err := c.Quiz.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		for _, button := range c.Quiz.Buttons {
			if !slices.Contains(targets, button) {
				return fmt.Errorf("%w: quiz button %s is not a target", ErrInvalidConfig, button)
			}
		}
	}
	return nil
}
