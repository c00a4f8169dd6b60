package bullet

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/zeusync/gallery/internal/core/systems/bullet"

// instruments mirrors Stats into OpenTelemetry counters. Without an SDK
// installed the global meter is a no-op.
type instruments struct {
	spawned  metric.Int64Counter
	recycled metric.Int64Counter
	expired  metric.Int64Counter
	hits     metric.Int64Counter
}

func newInstruments(meter metric.Meter) (instruments, error) {
	var in instruments
	var err, e error
	in.spawned, e = meter.Int64Counter("gallery.projectile.spawned",
		metric.WithDescription("Projectiles launched"))
	err = errors.Join(err, e)
	in.recycled, e = meter.Int64Counter("gallery.projectile.recycled",
		metric.WithDescription("Launches that recycled the oldest in-flight projectile"))
	err = errors.Join(err, e)
	in.expired, e = meter.Int64Counter("gallery.projectile.expired",
		metric.WithDescription("Projectiles retired on timeout"))
	err = errors.Join(err, e)
	in.hits, e = meter.Int64Counter("gallery.projectile.hits",
		metric.WithDescription("Projectiles retired on a target hit"))
	err = errors.Join(err, e)
	return in, err
}

func defaultMeter() metric.Meter {
	return otel.Meter(meterName)
}

func typeAttr(name string) metric.AddOption {
	return metric.WithAttributes(attribute.String("projectile.type", name))
}

func (in instruments) add(c metric.Int64Counter, typeName string) {
	if c == nil {
		return
	}
	c.Add(context.Background(), 1, typeAttr(typeName))
}
