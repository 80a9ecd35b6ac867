package schedule

import (
	"testing"
	"time"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/types"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newSchedule(total types.Amount, cliff, duration time.Duration) *Schedule {
	return &Schedule{
		Entity:          types.NewEntityAt(start),
		ID:              id.NewScheduleID(),
		Beneficiary:     "alice",
		TotalAmount:     total,
		StartTime:       start,
		CliffDuration:   cliff,
		VestingDuration: duration,
		Active:          true,
	}
}

func TestVestedAt(t *testing.T) {
	// 1200 tokens over 365 days with a 30 day cliff. The cliff gates the
	// curve but does not shift its origin: the amount unlocked at the
	// cliff covers the whole elapsed period.
	s := newSchedule(1200, Days(30), Days(365))

	tests := []struct {
		name    string
		elapsed time.Duration
		want    types.Amount
	}{
		{"at start", 0, 0},
		{"just before cliff", Days(30) - time.Second, 0},
		{"at cliff", Days(30), 98},
		{"mid curve", Days(200), 657},
		{"just before end", Days(365) - time.Second, 1199},
		{"at end", Days(365), 1200},
		{"long after end", Days(1000), 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.VestedAt(start.Add(tt.elapsed)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestVestedAtNoCliff(t *testing.T) {
	s := newSchedule(1000, 0, Days(100))

	tests := []struct {
		elapsed time.Duration
		want    types.Amount
	}{
		{0, 0},
		{Days(1), 10},
		{Days(50), 500},
		{Days(99), 990},
		{Days(100), 1000},
	}

	for _, tt := range tests {
		if got := s.VestedAt(start.Add(tt.elapsed)); got != tt.want {
			t.Errorf("elapsed %v: got %s, want %s", tt.elapsed, got, tt.want)
		}
	}
}

func TestVestedAtSubDayPrecision(t *testing.T) {
	// Vesting accrues per second, not per day.
	s := newSchedule(86_400, 0, Days(1))

	if got := s.VestedAt(start.Add(time.Second)); got != 1 {
		t.Errorf("one second: got %s, want 1", got)
	}
	if got := s.VestedAt(start.Add(12 * time.Hour)); got != 43_200 {
		t.Errorf("half day: got %s, want 43200", got)
	}
}

func TestVestedAtFullCliff(t *testing.T) {
	// Cliff equal to the duration unlocks everything at once.
	s := newSchedule(500, Days(10), Days(10))

	if got := s.VestedAt(start.Add(Days(10) - time.Second)); got != 0 {
		t.Errorf("before cliff: got %s, want 0", got)
	}
	if got := s.VestedAt(start.Add(Days(10))); got != 500 {
		t.Errorf("at cliff: got %s, want 500", got)
	}
}

func TestReleasableAt(t *testing.T) {
	s := newSchedule(1000, 0, Days(100))

	at := start.Add(Days(50))
	if got := s.ReleasableAt(at); got != 500 {
		t.Errorf("nothing released: got %s, want 500", got)
	}

	s.ReleasedAmount = 300
	if got := s.ReleasableAt(at); got != 200 {
		t.Errorf("partially released: got %s, want 200", got)
	}

	s.ReleasedAmount = 500
	if got := s.ReleasableAt(at); !got.IsZero() {
		t.Errorf("fully released at time: got %s, want 0", got)
	}
}

func TestFullyVestedAndReleased(t *testing.T) {
	s := newSchedule(1000, 0, Days(100))

	if s.FullyVested(start.Add(Days(99))) {
		t.Error("expected not fully vested before end")
	}
	if !s.FullyVested(start.Add(Days(100))) {
		t.Error("expected fully vested at end")
	}

	if s.FullyReleased() {
		t.Error("expected not fully released")
	}
	s.ReleasedAmount = 1000
	if !s.FullyReleased() {
		t.Error("expected fully released")
	}
}

func TestBoundaries(t *testing.T) {
	s := newSchedule(1000, Days(30), Days(365))

	if got := s.CliffEnd(); !got.Equal(start.Add(Days(30))) {
		t.Errorf("cliff end: got %v", got)
	}
	if got := s.End(); !got.Equal(start.Add(Days(365))) {
		t.Errorf("end: got %v", got)
	}
}

func TestDays(t *testing.T) {
	if Days(1) != 24*time.Hour {
		t.Errorf("Days(1): got %v", Days(1))
	}
	if Days(365) != 365*24*time.Hour {
		t.Errorf("Days(365): got %v", Days(365))
	}
}
