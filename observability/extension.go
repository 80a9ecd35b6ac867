// Package observability provides a metrics extension for Vesting that records
// lifecycle event counts via an injected MetricFactory.
package observability

import (
	"context"

	vesting "github.com/xraph/vesting"
	"github.com/xraph/vesting/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnScheduleCreated      = (*MetricsExtension)(nil)
	_ plugin.OnTokensReleased       = (*MetricsExtension)(nil)
	_ plugin.OnScheduleRevoked      = (*MetricsExtension)(nil)
	_ plugin.OnOwnershipTransferred = (*MetricsExtension)(nil)
	_ plugin.OnTransferFailed       = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Vesting plugin to automatically track ledger metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Schedule metrics
	ScheduleCreated Counter
	ScheduleRevoked Counter

	// Settlement metrics
	TokensReleased  Counter
	ReleaseAmount   Histogram
	Settlements     Counter
	TransferFailure Counter

	// Administration metrics
	OwnershipTransfers Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Schedule metrics
		ScheduleCreated: factory.Counter("vesting.schedule.created"),
		ScheduleRevoked: factory.Counter("vesting.schedule.revoked"),

		// Settlement metrics
		TokensReleased:  factory.Counter("vesting.tokens.released"),
		ReleaseAmount:   factory.Histogram("vesting.release.amount"),
		Settlements:     factory.Counter("vesting.settlements"),
		TransferFailure: factory.Counter("vesting.transfer.failures"),

		// Administration metrics
		OwnershipTransfers: factory.Counter("vesting.ownership.transfers"),

		// Error metrics
		StoreErrors:  factory.Counter("vesting.store.errors"),
		PluginErrors: factory.Counter("vesting.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Schedule lifecycle hooks
// ──────────────────────────────────────────────────

// OnScheduleCreated implements plugin.OnScheduleCreated.
func (m *MetricsExtension) OnScheduleCreated(_ context.Context, _ interface{}) error {
	m.ScheduleCreated.Inc()
	return nil
}

// OnScheduleRevoked implements plugin.OnScheduleRevoked.
func (m *MetricsExtension) OnScheduleRevoked(_ context.Context, _ interface{}) error {
	m.ScheduleRevoked.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnTokensReleased implements plugin.OnTokensReleased.
func (m *MetricsExtension) OnTokensReleased(_ context.Context, event interface{}) error {
	m.TokensReleased.Inc()
	if evt, ok := event.(*vesting.ReleaseEvent); ok {
		m.ReleaseAmount.Observe(float64(evt.Amount.Uint64()))
		if evt.Settlement {
			m.Settlements.Inc()
		}
	}
	return nil
}

// OnTransferFailed implements plugin.OnTransferFailed.
func (m *MetricsExtension) OnTransferFailed(_ context.Context, _ string, _ error) error {
	m.TransferFailure.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Administration hooks
// ──────────────────────────────────────────────────

// OnOwnershipTransferred implements plugin.OnOwnershipTransferred.
func (m *MetricsExtension) OnOwnershipTransferred(_ context.Context, _, _ string) error {
	m.OwnershipTransfers.Inc()
	return nil
}
