// Package schedule defines the vesting schedule model and the vested-amount
// computation at its core.
package schedule

import (
	"time"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/types"
)

// Day is the duration of one vesting day (86400 seconds).
const Day = 24 * time.Hour

// Days converts a whole number of days into a duration, the conversion
// applied to the day-denominated boundary operations.
func Days(n int) time.Duration {
	return time.Duration(n) * Day
}

// Schedule is one beneficiary's vesting schedule. TotalAmount, StartTime,
// CliffDuration and VestingDuration are fixed at creation; ReleasedAmount
// is monotonically non-decreasing and bounded above by TotalAmount; Active
// flips to false exactly once, at revocation.
type Schedule struct {
	types.Entity
	ID              id.ScheduleID     `json:"id"`
	Beneficiary     string            `json:"beneficiary"`
	TotalAmount     types.Amount      `json:"total_amount"`
	StartTime       time.Time         `json:"start_time"`
	CliffDuration   time.Duration     `json:"cliff_duration"`
	VestingDuration time.Duration     `json:"vesting_duration"`
	ReleasedAmount  types.Amount      `json:"released_amount"`
	Active          bool              `json:"active"`
	RevokedAt       *time.Time        `json:"revoked_at,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// CliffEnd returns the instant before which nothing vests.
func (s *Schedule) CliffEnd() time.Time {
	return s.StartTime.Add(s.CliffDuration)
}

// End returns the instant at which the full allocation is vested.
func (s *Schedule) End() time.Time {
	return s.StartTime.Add(s.VestingDuration)
}

// VestedAt returns the portion of TotalAmount earned as of now.
//
// Before the cliff ends nothing is vested; after VestingDuration the full
// allocation is vested. In between the amount is
// floor(TotalAmount * elapsed / VestingDuration), where elapsed is measured
// in whole seconds since StartTime. The cliff only gates whether vesting has
// begun — it does not shift the linear curve's origin, so the first amount
// to unlock at the cliff covers the whole period since start.
func (s *Schedule) VestedAt(now time.Time) types.Amount {
	if now.Before(s.CliffEnd()) {
		return 0
	}
	if !now.Before(s.End()) {
		return s.TotalAmount
	}

	elapsed := uint64(now.Sub(s.StartTime) / time.Second)
	total := uint64(s.VestingDuration / time.Second)
	return s.TotalAmount.Scale(elapsed, total)
}

// ReleasableAt returns the vested amount not yet released as of now.
// Monotonicity of VestedAt and the ReleasedAmount upper bound guarantee the
// subtraction never underflows for a schedule mutated only through the
// engine.
func (s *Schedule) ReleasableAt(now time.Time) types.Amount {
	return s.VestedAt(now).Sub(s.ReleasedAmount)
}

// FullyVested reports whether the entire allocation has vested as of now.
func (s *Schedule) FullyVested(now time.Time) bool {
	return !now.Before(s.End())
}

// FullyReleased reports whether every vested token has been paid out.
func (s *Schedule) FullyReleased() bool {
	return s.ReleasedAmount == s.TotalAmount
}

// ListOpts filters schedule listings.
type ListOpts struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}
