package injector

import (
	"fmt"

	"github.com/zeusync/gallery/internal/config"
	"github.com/zeusync/gallery/internal/core/events/bus"
	"github.com/zeusync/gallery/internal/core/models"
	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/weapon"
	"github.com/zeusync/gallery/internal/quiz"
	"github.com/zeusync/gallery/internal/session"
)

// App is the assembled gallery: a session whose sweep already knows every
// configured projectile type and target.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Bus     bus.EventBus
	Session *session.Session
	Shooter *weapon.Shooter
	Targets []*models.Target
	// Quiz is nil when the config has no quiz section.
	Quiz *quiz.Gate
}

// NewApp populates the session's sweep. It must run before Session.Run.
func NewApp(cfg *config.Config, logger *log.Logger, eventBus bus.EventBus, sess *session.Session) (*App, error) {
	sweep := sess.Sweep()
	for _, p := range cfg.Projectiles {
		if err := sweep.RegisterType(p.TypeSpec, p.Shape()); err != nil {
			return nil, fmt.Errorf("projectile %s: %w", p.Name, err)
		}
	}

	app := &App{Config: cfg, Logger: logger, Bus: eventBus, Session: sess}
	for _, tc := range cfg.Targets {
		target, err := models.NewTarget(tc)
		if err != nil {
			return nil, err
		}
		sweep.RegisterTarget(target, tc.Static)
		app.Targets = append(app.Targets, target)
	}

	shooter, err := weapon.NewShooter(cfg.Shooter, logger)
	if err != nil {
		return nil, err
	}
	app.Shooter = shooter

	if cfg.Quiz != nil {
		gate, err := quiz.NewGate(*cfg.Quiz, eventBus, logger)
		if err != nil {
			return nil, err
		}
		if err := gate.Bind(); err != nil {
			return nil, err
		}
		app.Quiz = gate
	}

	logger.Info("gallery assembled",
		log.Int("projectile_types", len(cfg.Projectiles)),
		log.Int("targets", len(app.Targets)),
		log.Bool("quiz", app.Quiz != nil),
	)
	return app, nil
}

// Target returns the configured target called name.
func (a *App) Target(name string) (*models.Target, bool) {
	for _, t := range a.Targets {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}
