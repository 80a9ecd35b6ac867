package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/vesting"
	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/types"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newSchedule(beneficiary string, total types.Amount) *schedule.Schedule {
	return &schedule.Schedule{
		Entity:          types.NewEntityAt(start),
		ID:              id.NewScheduleID(),
		Beneficiary:     beneficiary,
		TotalAmount:     total,
		StartTime:       start,
		VestingDuration: 100 * 24 * time.Hour,
		Active:          true,
	}
}

func newRelease(sched *schedule.Schedule, amount types.Amount, at time.Time) *schedule.Release {
	return &schedule.Release{
		ID:          id.NewReleaseID(),
		ScheduleID:  sched.ID,
		Beneficiary: sched.Beneficiary,
		Amount:      amount,
		Kind:        schedule.KindRelease,
		ReleasedAt:  at,
	}
}

func TestCreateSchedule(t *testing.T) {
	s := New()
	ctx := context.Background()

	sched := newSchedule("alice", 1000)
	if err := s.CreateSchedule(ctx, sched); err != nil {
		t.Fatalf("create: %v", err)
	}

	// One active schedule per beneficiary.
	if err := s.CreateSchedule(ctx, newSchedule("alice", 500)); !errors.Is(err, vesting.ErrScheduleAlreadyActive) {
		t.Errorf("duplicate: got %v, want %v", err, vesting.ErrScheduleAlreadyActive)
	}

	got, err := s.GetActiveSchedule(ctx, "alice")
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if got.ID.String() != sched.ID.String() {
		t.Errorf("active ID: got %s, want %s", got.ID, sched.ID)
	}

	byID, err := s.GetSchedule(ctx, sched.ID)
	if err != nil {
		t.Fatalf("get by ID: %v", err)
	}
	if byID.TotalAmount != 1000 {
		t.Errorf("total: got %s, want 1000", byID.TotalAmount)
	}

	if _, err := s.GetSchedule(ctx, id.NewScheduleID()); !errors.Is(err, vesting.ErrScheduleNotFound) {
		t.Errorf("unknown ID: got %v, want %v", err, vesting.ErrScheduleNotFound)
	}
	if _, err := s.GetActiveSchedule(ctx, "nobody"); !errors.Is(err, vesting.ErrNoActiveSchedule) {
		t.Errorf("unknown beneficiary: got %v, want %v", err, vesting.ErrNoActiveSchedule)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	sched := newSchedule("alice", 1000)
	if err := s.CreateSchedule(ctx, sched); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetActiveSchedule(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.ReleasedAmount = 999

	again, err := s.GetActiveSchedule(ctx, "alice")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if !again.ReleasedAmount.IsZero() {
		t.Error("caller mutation leaked into the store")
	}
}

func TestRecordRelease(t *testing.T) {
	s := New()
	ctx := context.Background()

	sched := newSchedule("alice", 1000)
	if err := s.CreateSchedule(ctx, sched); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.RecordRelease(ctx, newRelease(sched, 300, start.Add(time.Hour))); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := s.GetActiveSchedule(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ReleasedAmount != 300 {
		t.Errorf("released: got %s, want 300", got.ReleasedAmount)
	}

	// Releases on unknown or inactive schedules are rejected.
	ghost := newSchedule("ghost", 1)
	if err := s.RecordRelease(ctx, newRelease(ghost, 1, start)); !errors.Is(err, vesting.ErrNoActiveSchedule) {
		t.Errorf("unknown schedule: got %v, want %v", err, vesting.ErrNoActiveSchedule)
	}
}

func TestRevokeSchedule(t *testing.T) {
	s := New()
	ctx := context.Background()

	sched := newSchedule("alice", 1000)
	if err := s.CreateSchedule(ctx, sched); err != nil {
		t.Fatalf("create: %v", err)
	}

	at := start.Add(48 * time.Hour)
	settlement := newRelease(sched, 20, at)
	settlement.Kind = schedule.KindSettlement
	if err := s.RevokeSchedule(ctx, sched.ID, settlement, at); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	// The schedule survives as a historical record.
	got, err := s.GetSchedule(ctx, sched.ID)
	if err != nil {
		t.Fatalf("get revoked: %v", err)
	}
	if got.Active {
		t.Error("expected inactive schedule")
	}
	if got.RevokedAt == nil || !got.RevokedAt.Equal(at) {
		t.Errorf("revoked at: got %v, want %v", got.RevokedAt, at)
	}
	if got.ReleasedAmount != 20 {
		t.Errorf("released: got %s, want 20", got.ReleasedAmount)
	}

	// But it no longer occupies the live index.
	if _, err := s.GetActiveSchedule(ctx, "alice"); !errors.Is(err, vesting.ErrNoActiveSchedule) {
		t.Errorf("active after revoke: got %v, want %v", err, vesting.ErrNoActiveSchedule)
	}
	if err := s.RevokeSchedule(ctx, sched.ID, nil, at); !errors.Is(err, vesting.ErrNoActiveSchedule) {
		t.Errorf("double revoke: got %v, want %v", err, vesting.ErrNoActiveSchedule)
	}
	if err := s.RecordRelease(ctx, newRelease(sched, 1, at)); !errors.Is(err, vesting.ErrNoActiveSchedule) {
		t.Errorf("release after revoke: got %v, want %v", err, vesting.ErrNoActiveSchedule)
	}

	// A fresh schedule can take the freed slot.
	if err := s.CreateSchedule(ctx, newSchedule("alice", 500)); err != nil {
		t.Errorf("recreate: %v", err)
	}
}

func TestRegistryIsAppendOnly(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := newSchedule("alice", 100)
	if err := s.CreateSchedule(ctx, first); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if err := s.CreateSchedule(ctx, newSchedule("bob", 100)); err != nil {
		t.Fatalf("create bob: %v", err)
	}
	if err := s.RevokeSchedule(ctx, first.ID, nil, start); err != nil {
		t.Fatalf("revoke alice: %v", err)
	}
	// Recreation does not duplicate the registry entry.
	if err := s.CreateSchedule(ctx, newSchedule("alice", 100)); err != nil {
		t.Fatalf("recreate alice: %v", err)
	}

	names, err := s.ListBeneficiaries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "alice" || names[1] != "bob" {
		t.Errorf("registry: got %v, want [alice bob]", names)
	}
}

func TestAggregates(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice := newSchedule("alice", 1000)
	bob := newSchedule("bob", 500)
	for _, sched := range []*schedule.Schedule{alice, bob} {
		if err := s.CreateSchedule(ctx, sched); err != nil {
			t.Fatalf("create %s: %v", sched.Beneficiary, err)
		}
	}
	if err := s.RecordRelease(ctx, newRelease(alice, 200, start)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.RevokeSchedule(ctx, bob.ID, newRelease(bob, 50, start), start); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	count, err := s.CountActive(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count active: got %d, want 1", count)
	}

	totals, err := s.Totals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.TotalVesting != 1500 {
		t.Errorf("total vesting: got %s, want 1500", totals.TotalVesting)
	}
	if totals.TotalReleased != 250 {
		t.Errorf("total released: got %s, want 250", totals.TotalReleased)
	}
}

func TestListSchedulesPagination(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, b := range []string{"alice", "bob", "carol", "dave"} {
		if err := s.CreateSchedule(ctx, newSchedule(b, 100)); err != nil {
			t.Fatalf("create %s: %v", b, err)
		}
	}

	page, err := s.ListSchedules(ctx, schedule.ListOpts{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page length: got %d, want 2", len(page))
	}
	if page[0].Beneficiary != "bob" || page[1].Beneficiary != "carol" {
		t.Errorf("page order: got [%s %s], want [bob carol]", page[0].Beneficiary, page[1].Beneficiary)
	}

	// Offset past the end yields an empty page, not an error.
	empty, err := s.ListSchedules(ctx, schedule.ListOpts{Offset: 10})
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("past end: got %d, want 0", len(empty))
	}
}

func TestListReleasesFilters(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice := newSchedule("alice", 1000)
	bob := newSchedule("bob", 1000)
	for _, sched := range []*schedule.Schedule{alice, bob} {
		if err := s.CreateSchedule(ctx, sched); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		at := start.Add(time.Duration(i+1) * time.Hour)
		if err := s.RecordRelease(ctx, newRelease(alice, 10, at)); err != nil {
			t.Fatalf("record alice: %v", err)
		}
	}
	if err := s.RecordRelease(ctx, newRelease(bob, 10, start.Add(time.Hour))); err != nil {
		t.Fatalf("record bob: %v", err)
	}

	all, err := s.ListReleases(ctx, "", schedule.HistoryOpts{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("all releases: got %d, want 4", len(all))
	}

	aliceOnly, err := s.ListReleases(ctx, "alice", schedule.HistoryOpts{})
	if err != nil {
		t.Fatalf("list alice: %v", err)
	}
	if len(aliceOnly) != 3 {
		t.Errorf("alice releases: got %d, want 3", len(aliceOnly))
	}

	windowed, err := s.ListReleases(ctx, "alice", schedule.HistoryOpts{
		Start: start.Add(90 * time.Minute),
		End:   start.Add(150 * time.Minute),
	})
	if err != nil {
		t.Fatalf("windowed: %v", err)
	}
	if len(windowed) != 1 {
		t.Errorf("windowed: got %d, want 1", len(windowed))
	}
}
