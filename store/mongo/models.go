package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/types"
)

// ==================== Schedule models ====================

type scheduleModel struct {
	grove.BaseModel `grove:"table:vesting_schedules"`

	ID              string            `grove:"id,pk"            bson:"_id"`
	Beneficiary     string            `grove:"beneficiary"      bson:"beneficiary"`
	TotalAmount     int64             `grove:"total_amount"     bson:"total_amount"`
	StartTime       time.Time         `grove:"start_time"       bson:"start_time"`
	CliffSeconds    int64             `grove:"cliff_seconds"    bson:"cliff_seconds"`
	DurationSeconds int64             `grove:"duration_seconds" bson:"duration_seconds"`
	ReleasedAmount  int64             `grove:"released_amount"  bson:"released_amount"`
	Active          bool              `grove:"active"           bson:"active"`
	RevokedAt       *time.Time        `grove:"revoked_at"       bson:"revoked_at,omitempty"`
	Metadata        map[string]string `grove:"metadata"         bson:"metadata,omitempty"`
	CreatedAt       time.Time         `grove:"created_at"       bson:"created_at"`
	UpdatedAt       time.Time         `grove:"updated_at"       bson:"updated_at"`
}

func toScheduleModel(s *schedule.Schedule) *scheduleModel {
	return &scheduleModel{
		ID:              s.ID.String(),
		Beneficiary:     s.Beneficiary,
		TotalAmount:     int64(s.TotalAmount),
		StartTime:       s.StartTime,
		CliffSeconds:    int64(s.CliffDuration / time.Second),
		DurationSeconds: int64(s.VestingDuration / time.Second),
		ReleasedAmount:  int64(s.ReleasedAmount),
		Active:          s.Active,
		RevokedAt:       s.RevokedAt,
		Metadata:        s.Metadata,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func fromScheduleModel(m *scheduleModel) (*schedule.Schedule, error) {
	scheduleID, err := id.ParseScheduleID(m.ID)
	if err != nil {
		return nil, err
	}

	return &schedule.Schedule{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:              scheduleID,
		Beneficiary:     m.Beneficiary,
		TotalAmount:     types.Amount(m.TotalAmount),
		StartTime:       m.StartTime,
		CliffDuration:   time.Duration(m.CliffSeconds) * time.Second,
		VestingDuration: time.Duration(m.DurationSeconds) * time.Second,
		ReleasedAmount:  types.Amount(m.ReleasedAmount),
		Active:          m.Active,
		RevokedAt:       m.RevokedAt,
		Metadata:        m.Metadata,
	}, nil
}

// ==================== Registry models ====================

type registryModel struct {
	grove.BaseModel `grove:"table:vesting_registry"`

	Beneficiary string    `grove:"beneficiary,pk" bson:"_id"`
	CreatedAt   time.Time `grove:"created_at"     bson:"created_at"`
}

// ==================== Release models ====================

type releaseModel struct {
	grove.BaseModel `grove:"table:vesting_releases"`

	ID          string    `grove:"id,pk"       bson:"_id"`
	ScheduleID  string    `grove:"schedule_id" bson:"schedule_id"`
	Beneficiary string    `grove:"beneficiary" bson:"beneficiary"`
	Amount      int64     `grove:"amount"      bson:"amount"`
	Kind        string    `grove:"kind"        bson:"kind"`
	ReleasedAt  time.Time `grove:"released_at" bson:"released_at"`
}

func toReleaseModel(rel *schedule.Release) *releaseModel {
	return &releaseModel{
		ID:          rel.ID.String(),
		ScheduleID:  rel.ScheduleID.String(),
		Beneficiary: rel.Beneficiary,
		Amount:      int64(rel.Amount),
		Kind:        string(rel.Kind),
		ReleasedAt:  rel.ReleasedAt,
	}
}

func fromReleaseModel(m *releaseModel) (*schedule.Release, error) {
	releaseID, err := id.ParseReleaseID(m.ID)
	if err != nil {
		return nil, err
	}
	scheduleID, err := id.ParseScheduleID(m.ScheduleID)
	if err != nil {
		return nil, err
	}

	return &schedule.Release{
		ID:          releaseID,
		ScheduleID:  scheduleID,
		Beneficiary: m.Beneficiary,
		Amount:      types.Amount(m.Amount),
		Kind:        schedule.ReleaseKind(m.Kind),
		ReleasedAt:  m.ReleasedAt,
	}, nil
}
