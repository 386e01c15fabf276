// Package telemetry wires the gateway's execute/search operations to
// OpenTelemetry metrics, exported through a Prometheus scrape endpoint.
// The construction/shutdown contract (NewProvider(ctx, cfg), Shutdown(ctx))
// mirrors how the teacher's cmd/vmcp wires its own telemetry.Provider.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/mcpgateway/codemode/pkg/gateway/validate"
)

// Config controls whether telemetry is enabled and how it is labelled.
type Config struct {
	Enabled                     bool
	ServiceName                 string
	MetricsEnabled              bool
	EnablePrometheusMetricsPath bool
}

// Provider owns the metric pipeline for one gateway process.
type Provider struct {
	cfg      Config
	reader   *prometheus.Exporter
	meterPrv *sdkmetric.MeterProvider

	executions  metric.Int64Counter
	execFailure metric.Int64Counter
	timeouts    metric.Int64Counter
	budgetHits  metric.Int64Counter
	mcpCalls    metric.Int64Counter
	duration    metric.Float64Histogram
	searches    metric.Int64Counter
}

// NewProvider builds a Provider from cfg. When cfg.Enabled is false, it
// returns a Provider whose recording methods are no-ops, so callers never
// need to nil-check it.
func NewProvider(_ context.Context, cfg Config) (*Provider, error) {
	p := &Provider{cfg: cfg}
	if !cfg.Enabled || !cfg.MetricsEnabled {
		return p, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	p.reader = exporter

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	p.meterPrv = mp

	meter := mp.Meter(cfg.ServiceName)

	if p.executions, err = meter.Int64Counter("codemode_executions_total"); err != nil {
		return nil, err
	}
	if p.execFailure, err = meter.Int64Counter("codemode_execution_failures_total"); err != nil {
		return nil, err
	}
	if p.timeouts, err = meter.Int64Counter("codemode_execution_timeouts_total"); err != nil {
		return nil, err
	}
	if p.budgetHits, err = meter.Int64Counter("codemode_execution_budget_exceeded_total"); err != nil {
		return nil, err
	}
	if p.mcpCalls, err = meter.Int64Counter("codemode_mcp_calls_total"); err != nil {
		return nil, err
	}
	if p.duration, err = meter.Float64Histogram("codemode_execution_duration_ms"); err != nil {
		return nil, err
	}
	if p.searches, err = meter.Int64Counter("codemode_searches_total"); err != nil {
		return nil, err
	}

	return p, nil
}

// RecordExecution folds an ExecutionResult into the execution metrics.
func (p *Provider) RecordExecution(ctx context.Context, r validate.ExecutionResult) {
	if p.executions == nil {
		return
	}
	p.executions.Add(ctx, 1)
	p.mcpCalls.Add(ctx, int64(r.Stats.MCPCalls))
	p.duration.Record(ctx, float64(r.Stats.DurationMs))
	if validate.IsSuccess(r) {
		return
	}
	p.execFailure.Add(ctx, 1)
	switch {
	case validate.IsTimeout(r):
		p.timeouts.Add(ctx, 1)
	case validate.IsCallLimitExceeded(r):
		p.budgetHits.Add(ctx, 1)
	}
}

// RecordSearch increments the search counter.
func (p *Provider) RecordSearch(ctx context.Context) {
	if p.searches == nil {
		return
	}
	p.searches.Add(ctx, 1)
}

// Shutdown releases the underlying meter provider, if one was created.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterPrv == nil {
		return nil
	}
	return p.meterPrv.Shutdown(ctx)
}
