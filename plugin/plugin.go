// Package plugin provides an extensible plugin system for the vesting
// ledger. Plugins can hook into lifecycle events to extend functionality.
package plugin

import "context"

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Schedule lifecycle hooks
// ──────────────────────────────────────────────────

// OnScheduleCreated is called when a new vesting schedule is created.
// The event is a *vesting.CreationEvent passed as interface{} to avoid an
// import cycle.
type OnScheduleCreated interface {
	Plugin
	OnScheduleCreated(ctx context.Context, event interface{}) error
}

// OnTokensReleased is called after a settlement commits. The event is a
// *vesting.ReleaseEvent.
type OnTokensReleased interface {
	Plugin
	OnTokensReleased(ctx context.Context, event interface{}) error
}

// OnScheduleRevoked is called after a schedule is revoked. The event is a
// *vesting.RevocationEvent.
type OnScheduleRevoked interface {
	Plugin
	OnScheduleRevoked(ctx context.Context, event interface{}) error
}

// ──────────────────────────────────────────────────
// Administrative hooks
// ──────────────────────────────────────────────────

// OnOwnershipTransferred is called when the owner authority changes hands.
type OnOwnershipTransferred interface {
	Plugin
	OnOwnershipTransferred(ctx context.Context, oldOwner, newOwner string) error
}

// OnTransferFailed is called when the external token-ledger transfer fails
// and the settlement is aborted. Useful for alerting; the error has already
// been returned to the caller.
type OnTransferFailed interface {
	Plugin
	OnTransferFailed(ctx context.Context, beneficiary string, err error) error
}
