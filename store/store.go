// Package store defines the unified storage interface for the vesting
// ledger.
package store

import (
	"context"
	"time"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/types"
)

// Totals are the ledger-wide aggregate amounts, derived by summation over
// all schedules ever created so they are always consistent with the
// per-schedule state.
type Totals struct {
	TotalVesting  types.Amount
	TotalReleased types.Amount
}

// Store is the unified storage interface for all vesting ledger entities.
// The engine serializes mutations per beneficiary, so implementations only
// need single-statement atomicity for the state-bearing write of each
// method.
type Store interface {
	// Schedule methods
	//
	// CreateSchedule inserts the schedule and registers its beneficiary
	// in the registry log (at most once per beneficiary). It fails with
	// vesting.ErrScheduleAlreadyActive if an active schedule exists for
	// the beneficiary.
	CreateSchedule(ctx context.Context, s *schedule.Schedule) error
	GetSchedule(ctx context.Context, scheduleID id.ScheduleID) (*schedule.Schedule, error)
	// GetActiveSchedule returns the active schedule for a beneficiary, or
	// vesting.ErrNoActiveSchedule.
	GetActiveSchedule(ctx context.Context, beneficiary string) (*schedule.Schedule, error)
	ListSchedules(ctx context.Context, opts schedule.ListOpts) ([]*schedule.Schedule, error)

	// Settlement methods
	//
	// RecordRelease adds amount to the schedule's released total and
	// appends the release record. It fails with
	// vesting.ErrNoActiveSchedule if the schedule is not active.
	RecordRelease(ctx context.Context, rel *schedule.Release) error
	// RevokeSchedule deactivates the schedule, applying the settlement
	// amount and appending its release record when non-nil. It fails with
	// vesting.ErrNoActiveSchedule if the schedule is already revoked.
	RevokeSchedule(ctx context.Context, scheduleID id.ScheduleID, settlement *schedule.Release, at time.Time) error

	// Registry and aggregate methods
	//
	// ListBeneficiaries returns the append-only registry log in insertion
	// order. Revocation never removes entries.
	ListBeneficiaries(ctx context.Context) ([]string, error)
	// CountActive returns the number of currently active schedules.
	CountActive(ctx context.Context) (int, error)
	Totals(ctx context.Context) (Totals, error)
	ListReleases(ctx context.Context, beneficiary string, opts schedule.HistoryOpts) ([]*schedule.Release, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
