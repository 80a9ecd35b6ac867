package vesting

import (
	"time"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/types"
)

// CreationEvent is emitted when a schedule is created.
type CreationEvent struct {
	ScheduleID  id.ScheduleID `json:"schedule_id"`
	Beneficiary string        `json:"beneficiary"`
	TotalAmount types.Amount  `json:"total_amount"`
	StartTime   time.Time     `json:"start_time"`
}

// ReleaseEvent is emitted for every settlement, whether requested by the
// beneficiary, requested by an administrator, or applied as the
// pre-revocation settlement.
type ReleaseEvent struct {
	ID          id.ReleaseID  `json:"id"`
	ScheduleID  id.ScheduleID `json:"schedule_id"`
	Beneficiary string        `json:"beneficiary"`
	Amount      types.Amount  `json:"amount"`
	ReleasedAt  time.Time     `json:"released_at"`
	Settlement  bool          `json:"settlement"` // true when part of a revocation
}

// RevocationEvent is emitted when a schedule is revoked.
type RevocationEvent struct {
	ID          id.RevocationID `json:"id"`
	ScheduleID  id.ScheduleID   `json:"schedule_id"`
	Beneficiary string          `json:"beneficiary"`
	Settled     types.Amount    `json:"settled"` // amount paid out at revocation
	RevokedAt   time.Time       `json:"revoked_at"`
}

// Stats are the ledger-wide aggregate counters. BeneficiaryCount is the
// number of currently active schedules, from the live index rather than the
// append-only registry log.
type Stats struct {
	BeneficiaryCount int          `json:"beneficiary_count"`
	TotalVesting     types.Amount `json:"total_vesting"`
	TotalReleased    types.Amount `json:"total_released"`
}
