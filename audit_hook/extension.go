// Package audithook bridges vesting lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	vesting "github.com/xraph/vesting"
	"github.com/xraph/vesting/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnScheduleCreated      = (*Extension)(nil)
	_ plugin.OnTokensReleased       = (*Extension)(nil)
	_ plugin.OnScheduleRevoked      = (*Extension)(nil)
	_ plugin.OnOwnershipTransferred = (*Extension)(nil)
	_ plugin.OnTransferFailed       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges vesting lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Schedule lifecycle hooks
// ──────────────────────────────────────────────────

// OnScheduleCreated implements plugin.OnScheduleCreated.
func (e *Extension) OnScheduleCreated(ctx context.Context, event interface{}) error {
	evt, ok := event.(*vesting.CreationEvent)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionScheduleCreated, SeverityInfo, OutcomeSuccess,
		ResourceSchedule, evt.ScheduleID.String(), CategoryVesting, nil,
		"beneficiary", evt.Beneficiary,
		"total_amount", evt.TotalAmount.String(),
		"start_time", evt.StartTime,
	)
}

// OnScheduleRevoked implements plugin.OnScheduleRevoked.
func (e *Extension) OnScheduleRevoked(ctx context.Context, event interface{}) error {
	evt, ok := event.(*vesting.RevocationEvent)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionScheduleRevoked, SeverityWarning, OutcomeSuccess,
		ResourceSchedule, evt.ScheduleID.String(), CategoryVesting, nil,
		"beneficiary", evt.Beneficiary,
		"settled", evt.Settled.String(),
		"revoked_at", evt.RevokedAt,
	)
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnTokensReleased implements plugin.OnTokensReleased.
func (e *Extension) OnTokensReleased(ctx context.Context, event interface{}) error {
	evt, ok := event.(*vesting.ReleaseEvent)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionTokensReleased, SeverityInfo, OutcomeSuccess,
		ResourceRelease, evt.ID.String(), CategorySettlement, nil,
		"schedule_id", evt.ScheduleID.String(),
		"beneficiary", evt.Beneficiary,
		"amount", evt.Amount.String(),
		"settlement", evt.Settlement,
	)
}

// OnTransferFailed implements plugin.OnTransferFailed.
func (e *Extension) OnTransferFailed(ctx context.Context, beneficiary string, failure error) error {
	return e.record(ctx, ActionTransferFailed, SeverityCritical, OutcomeFailure,
		ResourceRelease, "", CategorySettlement, failure,
		"beneficiary", beneficiary,
	)
}

// ──────────────────────────────────────────────────
// Administration hooks
// ──────────────────────────────────────────────────

// OnOwnershipTransferred implements plugin.OnOwnershipTransferred.
func (e *Extension) OnOwnershipTransferred(ctx context.Context, oldOwner, newOwner string) error {
	return e.record(ctx, ActionOwnershipTransferred, SeverityWarning, OutcomeSuccess,
		ResourceOwnership, newOwner, CategoryAdministration, nil,
		"old_owner", oldOwner,
		"new_owner", newOwner,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
