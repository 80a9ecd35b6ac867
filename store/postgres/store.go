// Package postgres provides the PostgreSQL-backed vesting store via Grove ORM.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	vesting "github.com/xraph/vesting"
	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	vestingstore "github.com/xraph/vesting/store"
)

// compile-time interface check
var _ vestingstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("vesting/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("vesting/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Schedule Store ====================

func (s *Store) CreateSchedule(ctx context.Context, sched *schedule.Schedule) error {
	existing := new(scheduleModel)
	err := s.pg.NewSelect(existing).
		Where("beneficiary = ?", sched.Beneficiary).
		Where("active = ?", true).
		Scan(ctx)
	if err == nil {
		return vesting.ErrScheduleAlreadyActive
	}
	if !isNoRows(err) {
		return err
	}

	// The partial unique index on (beneficiary) WHERE active rejects any
	// concurrent duplicate the pre-check missed.
	m := toScheduleModel(sched)
	if _, err := s.pg.NewInsert(m).Exec(ctx); err != nil {
		return err
	}

	reg := &registryModel{Beneficiary: sched.Beneficiary, CreatedAt: now()}
	_, err = s.pg.NewInsert(reg).
		OnConflict("(beneficiary) DO NOTHING").
		Exec(ctx)
	return err
}

func (s *Store) GetSchedule(ctx context.Context, scheduleID id.ScheduleID) (*schedule.Schedule, error) {
	m := new(scheduleModel)
	err := s.pg.NewSelect(m).
		Where("id = ?", scheduleID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, vesting.ErrScheduleNotFound
		}
		return nil, err
	}
	return fromScheduleModel(m)
}

func (s *Store) GetActiveSchedule(ctx context.Context, beneficiary string) (*schedule.Schedule, error) {
	m := new(scheduleModel)
	err := s.pg.NewSelect(m).
		Where("beneficiary = ?", beneficiary).
		Where("active = ?", true).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, vesting.ErrNoActiveSchedule
		}
		return nil, err
	}
	return fromScheduleModel(m)
}

func (s *Store) ListSchedules(ctx context.Context, opts schedule.ListOpts) ([]*schedule.Schedule, error) {
	var models []scheduleModel
	q := s.pg.NewSelect(&models)

	if opts.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*schedule.Schedule, len(models))
	for i := range models {
		sched, err := fromScheduleModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = sched
	}
	return result, nil
}

// ==================== Settlement Store ====================

func (s *Store) RecordRelease(ctx context.Context, rel *schedule.Release) error {
	res, err := s.pg.NewUpdate((*scheduleModel)(nil)).
		Set("released_amount = released_amount + ?", int64(rel.Amount)).
		Set("updated_at = ?", now()).
		Where("id = ?", rel.ScheduleID.String()).
		Where("active = ?", true).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return vesting.ErrNoActiveSchedule
	}

	_, err = s.pg.NewInsert(toReleaseModel(rel)).Exec(ctx)
	return err
}

func (s *Store) RevokeSchedule(ctx context.Context, scheduleID id.ScheduleID, settlement *schedule.Release, at time.Time) error {
	q := s.pg.NewUpdate((*scheduleModel)(nil)).
		Set("active = ?", false).
		Set("revoked_at = ?", at).
		Set("updated_at = ?", now()).
		Where("id = ?", scheduleID.String()).
		Where("active = ?", true)

	if settlement != nil {
		q = q.Set("released_amount = released_amount + ?", int64(settlement.Amount))
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return vesting.ErrNoActiveSchedule
	}

	if settlement != nil {
		_, err = s.pg.NewInsert(toReleaseModel(settlement)).Exec(ctx)
		return err
	}
	return nil
}

// ==================== Registry and Aggregate Store ====================

func (s *Store) ListBeneficiaries(ctx context.Context) ([]string, error) {
	var models []registryModel
	err := s.pg.NewSelect(&models).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]string, len(models))
	for i := range models {
		result[i] = models[i].Beneficiary
	}
	return result, nil
}

func (s *Store) CountActive(ctx context.Context) (int, error) {
	var count int
	err := s.pg.NewRaw(`
		SELECT COUNT(*) FROM vesting_schedules WHERE active
	`).Scan(ctx, &count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Totals(ctx context.Context) (vestingstore.Totals, error) {
	var vestingTotal int64
	err := s.pg.NewRaw(`
		SELECT COALESCE(SUM(total_amount), 0) FROM vesting_schedules
	`).Scan(ctx, &vestingTotal)
	if err != nil {
		return vestingstore.Totals{}, err
	}

	var releasedTotal int64
	err = s.pg.NewRaw(`
		SELECT COALESCE(SUM(released_amount), 0) FROM vesting_schedules
	`).Scan(ctx, &releasedTotal)
	if err != nil {
		return vestingstore.Totals{}, err
	}

	return vestingstore.Totals{
		TotalVesting:  vesting.Amount(vestingTotal),
		TotalReleased: vesting.Amount(releasedTotal),
	}, nil
}

func (s *Store) ListReleases(ctx context.Context, beneficiary string, opts schedule.HistoryOpts) ([]*schedule.Release, error) {
	var models []releaseModel
	q := s.pg.NewSelect(&models)

	if beneficiary != "" {
		q = q.Where("beneficiary = ?", beneficiary)
	}
	if !opts.Start.IsZero() {
		q = q.Where("released_at >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("released_at <= ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("released_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*schedule.Release, len(models))
	for i := range models {
		rel, err := fromReleaseModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = rel
	}
	return result, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
