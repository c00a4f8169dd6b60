package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/gallery/internal/config"
	"github.com/zeusync/gallery/internal/core/events/bus"
	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/systems/physics"
	"github.com/zeusync/gallery/internal/injector"
	"github.com/zeusync/gallery/internal/session"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to the gallery YAML config (defaults are used when empty)")
		duration   = pflag.DurationP("duration", "d", 0, "stop after this long; zero runs until interrupted or the quiz ends")
		logLevel   = pflag.String("log-level", "", "override log.level from the config")
		fireEvery  = pflag.Duration("fire-every", 250*time.Millisecond, "interval between scripted shots")
	)
	pflag.Parse()

	if err := run(*configPath, *duration, *logLevel, *fireEvery); err != nil {
		fmt.Fprintln(os.Stderr, "gallery:", err)
		os.Exit(1)
	}
}

func run(configPath string, duration time.Duration, logLevel string, fireEvery time.Duration) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	logger := app.Logger
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	if app.Quiz != nil {
		// runs on the session goroutine
		_, _ = app.Bus.Subscribe(bus.EventQuizFinished, func(bus.Event) error {
			cancel()
			return nil
		})
	}

	aims := aimPoints(app)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.Session.Run(gctx)
	})

	g.Go(func() error {
		if len(aims) == 0 {
			return nil
		}
		ticker := time.NewTicker(fireEvery)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
			app.Shooter.Aim(aims[i%len(aims)])
			if _, err := app.Shooter.Shoot(gctx, app.Session); err != nil {
				if errors.Is(err, session.ErrSessionClosed) || gctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	})

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			logger.Info("signal received", log.String("signal", sig.String()))
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	err = g.Wait()

	stats := app.Session.Sweep().Stats()
	logger.Info("sweep stats",
		log.Uint64("spawned", stats.Spawned),
		log.Uint64("recycled", stats.Recycled),
		log.Uint64("expired", stats.Expired),
		log.Uint64("hits", stats.Hits),
		log.Uint64("frames", app.Session.Frame().Count),
	)
	if app.Quiz != nil {
		res := app.Quiz.Result()
		logger.Info("quiz result",
			log.Int("score", res.Score),
			log.Int("total", res.Total),
			log.Bool("failed", res.Failed),
			log.Bool("finished", app.Quiz.Finished()),
		)
	}
	for _, t := range app.Targets {
		logger.Debug("target",
			log.String("name", t.Name()),
			log.Int("hits", t.Hits()),
			log.Float64("health", t.Health()),
			log.Float64("max_health", t.MaxHealth()),
		)
	}
	return err
}

// aimPoints aims the shooter from the scene origin at every visible target in
// config order.
func aimPoints(app *injector.App) []physics.Transform {
	var out []physics.Transform
	for _, t := range app.Targets {
		if !t.Visible() {
			continue
		}
		out = append(out, physics.Transform{Position: physics.Vec3{}, Forward: t.Position()})
	}
	return out
}
