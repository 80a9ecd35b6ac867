// Package memory provides an in-process store for tests and development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/vesting"
	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/store"
)

// Store implements store.Store with mutex-guarded maps.
type Store struct {
	mu sync.RWMutex

	// Schedule storage, keyed by schedule ID
	schedules map[string]*schedule.Schedule

	// Live index: beneficiary -> active schedule ID
	active map[string]string

	// Append-only beneficiary registry, one entry per beneficiary
	registry   []string
	registered map[string]bool

	// Append-only release history
	releases []schedule.Release
}

// compile-time interface check
var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		schedules:  make(map[string]*schedule.Schedule),
		active:     make(map[string]string),
		registered: make(map[string]bool),
	}
}

// Schedule Store implementation

func (s *Store) CreateSchedule(_ context.Context, sched *schedule.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.active[sched.Beneficiary]; exists {
		return vesting.ErrScheduleAlreadyActive
	}

	cp := *sched
	s.schedules[sched.ID.String()] = &cp
	s.active[sched.Beneficiary] = sched.ID.String()
	if !s.registered[sched.Beneficiary] {
		s.registered[sched.Beneficiary] = true
		s.registry = append(s.registry, sched.Beneficiary)
	}
	return nil
}

func (s *Store) GetSchedule(_ context.Context, scheduleID id.ScheduleID) (*schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sched, ok := s.schedules[scheduleID.String()]; ok {
		cp := *sched
		return &cp, nil
	}
	return nil, vesting.ErrScheduleNotFound
}

func (s *Store) GetActiveSchedule(_ context.Context, beneficiary string) (*schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.activeLocked(beneficiary)
}

// activeLocked requires at least a read lock.
func (s *Store) activeLocked(beneficiary string) (*schedule.Schedule, error) {
	sid, ok := s.active[beneficiary]
	if !ok {
		return nil, vesting.ErrNoActiveSchedule
	}
	cp := *s.schedules[sid]
	return &cp, nil
}

func (s *Store) ListSchedules(_ context.Context, opts schedule.ListOpts) ([]*schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Registry order keeps listings deterministic.
	result := make([]*schedule.Schedule, 0, len(s.schedules))
	seen := make(map[string]bool, len(s.schedules))
	for _, beneficiary := range s.registry {
		for sid, sched := range s.schedules {
			if sched.Beneficiary != beneficiary || seen[sid] {
				continue
			}
			seen[sid] = true
			if opts.ActiveOnly && !sched.Active {
				continue
			}
			cp := *sched
			result = append(result, &cp)
		}
	}

	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}
	return result[start:end], nil
}

// Settlement Store implementation

func (s *Store) RecordRelease(_ context.Context, rel *schedule.Release) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, ok := s.schedules[rel.ScheduleID.String()]
	if !ok || !sched.Active {
		return vesting.ErrNoActiveSchedule
	}

	sched.ReleasedAmount = sched.ReleasedAmount.Add(rel.Amount)
	sched.UpdatedAt = rel.ReleasedAt.UTC()
	s.releases = append(s.releases, *rel)
	return nil
}

func (s *Store) RevokeSchedule(_ context.Context, scheduleID id.ScheduleID, settlement *schedule.Release, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, ok := s.schedules[scheduleID.String()]
	if !ok {
		return vesting.ErrScheduleNotFound
	}
	if !sched.Active {
		return vesting.ErrNoActiveSchedule
	}

	if settlement != nil && !settlement.Amount.IsZero() {
		sched.ReleasedAmount = sched.ReleasedAmount.Add(settlement.Amount)
		s.releases = append(s.releases, *settlement)
	}

	at = at.UTC()
	sched.Active = false
	sched.RevokedAt = &at
	sched.UpdatedAt = at
	delete(s.active, sched.Beneficiary)
	return nil
}

// Registry and aggregate implementation

func (s *Store) ListBeneficiaries(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.registry))
	copy(out, s.registry)
	return out, nil
}

func (s *Store) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active), nil
}

func (s *Store) Totals(_ context.Context) (store.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t store.Totals
	for _, sched := range s.schedules {
		t.TotalVesting = t.TotalVesting.Add(sched.TotalAmount)
		t.TotalReleased = t.TotalReleased.Add(sched.ReleasedAmount)
	}
	return t, nil
}

func (s *Store) ListReleases(_ context.Context, beneficiary string, opts schedule.HistoryOpts) ([]*schedule.Release, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*schedule.Release, 0)
	for i := range s.releases {
		r := s.releases[i]
		if beneficiary != "" && r.Beneficiary != beneficiary {
			continue
		}
		if !opts.Start.IsZero() && r.ReleasedAt.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && r.ReleasedAt.After(opts.End) {
			continue
		}
		cp := r
		result = append(result, &cp)
	}

	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}
	return result[start:end], nil
}

// Store management

func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}
