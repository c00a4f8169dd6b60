package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/gallery/internal/config"
	"github.com/zeusync/gallery/internal/core/events/bus"
	"github.com/zeusync/gallery/internal/core/observability/log"
	"github.com/zeusync/gallery/internal/core/systems/bullet"
	"github.com/zeusync/gallery/internal/session"
)

// ProviderSet builds the session graph from a loaded config.
var ProviderSet = wire.NewSet(
	wire.FieldsOf(new(*config.Config), "Log", "Sweep", "Session"),
	log.NewFromConfig,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	bullet.NewSweep,
	session.New,
	NewApp,
)
