package schedule

import (
	"time"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/types"
)

// ReleaseKind distinguishes ordinary releases from the settlement applied
// when a schedule is revoked.
type ReleaseKind string

const (
	KindRelease    ReleaseKind = "release"
	KindSettlement ReleaseKind = "revocation_settlement"
)

// Release is one immutable settlement record in the release history log.
type Release struct {
	ID          id.ReleaseID  `json:"id"`
	ScheduleID  id.ScheduleID `json:"schedule_id"`
	Beneficiary string        `json:"beneficiary"`
	Amount      types.Amount  `json:"amount"`
	Kind        ReleaseKind   `json:"kind"`
	ReleasedAt  time.Time     `json:"released_at"`
}

// HistoryOpts filters release history queries.
type HistoryOpts struct {
	Start  time.Time
	End    time.Time
	Limit  int
	Offset int
}
