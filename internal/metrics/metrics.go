// Package metrics wires the OpenTelemetry meter provider and the
// authorization decision counters.
package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type Config struct {
	// Enabled turns metric export on. When false NewProvider returns nil and
	// recording becomes a no-op.
	Enabled bool `conf:"enabled" yaml:"enabled" json:"enabled"`

	// Interval between exports. Defaults to 30s.
	Interval time.Duration `conf:"interval" yaml:"interval" json:"interval"`
}

// NewProvider constructs the meter provider, or nil when metrics are disabled.
func NewProvider(cfg Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, err
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)

	return provider, nil
}

var (
	setupOnce        sync.Once
	decisionsCounter metric.Int64Counter
)

// SetupMetrics installs the provider globally and creates the instruments.
func SetupMetrics(provider *sdkmetric.MeterProvider, name string) error {
	var err error

	setupOnce.Do(func() {
		otel.SetMeterProvider(provider)

		meter := provider.Meter(name)
		decisionsCounter, err = meter.Int64Counter("crmhub.authz.decisions",
			metric.WithDescription("Authorization decisions by outcome and reason"),
		)
	})

	return err
}

// RecordDecision counts one authorization decision. No-op until SetupMetrics
// ran, so the request path never depends on metrics being configured.
func RecordDecision(ctx context.Context, allowed bool, reason string) {
	if decisionsCounter == nil {
		return
	}

	outcome := "deny"
	if allowed {
		outcome = "allow"
	}

	decisionsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("decision", outcome),
			attribute.String("reason", reason),
		),
	)
}
