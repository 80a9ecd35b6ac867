// Package mongo provides the MongoDB-backed vesting store via Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	vesting "github.com/xraph/vesting"
	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	vestingstore "github.com/xraph/vesting/store"
)

// Collection name constants.
const (
	colSchedules = "vesting_schedules"
	colRegistry  = "vesting_registry"
	colReleases  = "vesting_releases"
)

// compile-time interface check
var _ vestingstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all vesting collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("vesting/mongo: migrate %s indexes: %w", col, err)
		}
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
	var existing scheduleModel
	err := s.mdb.NewFind(&existing).
		Filter(bson.M{"beneficiary": sched.Beneficiary, "active": true}).
		Scan(ctx)
	if err == nil {
		return vesting.ErrScheduleAlreadyActive
	}
	if !isNoDocuments(err) {
		return fmt.Errorf("vesting/mongo: check active schedule: %w", err)
	}

	// The partial unique index on beneficiary (active documents only)
	// rejects any concurrent duplicate the pre-check missed.
	m := toScheduleModel(sched)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("vesting/mongo: create schedule: %w", err)
	}

	_, err = s.mdb.Collection(colRegistry).UpdateOne(ctx,
		bson.M{"_id": sched.Beneficiary},
		bson.M{"$setOnInsert": bson.M{"created_at": now()}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("vesting/mongo: register beneficiary: %w", err)
	}
	return nil
}

func (s *Store) GetSchedule(ctx context.Context, scheduleID id.ScheduleID) (*schedule.Schedule, error) {
	var m scheduleModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": scheduleID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, vesting.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("vesting/mongo: get schedule: %w", err)
	}
	return fromScheduleModel(&m)
}

func (s *Store) GetActiveSchedule(ctx context.Context, beneficiary string) (*schedule.Schedule, error) {
	var m scheduleModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"beneficiary": beneficiary, "active": true}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, vesting.ErrNoActiveSchedule
		}
		return nil, fmt.Errorf("vesting/mongo: get active schedule: %w", err)
	}
	return fromScheduleModel(&m)
}

func (s *Store) ListSchedules(ctx context.Context, opts schedule.ListOpts) ([]*schedule.Schedule, error) {
	var models []scheduleModel

	filter := bson.M{}
	if opts.ActiveOnly {
		filter["active"] = true
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("vesting/mongo: list schedules: %w", err)
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
	res, err := s.mdb.Collection(colSchedules).UpdateOne(ctx,
		bson.M{"_id": rel.ScheduleID.String(), "active": true},
		bson.M{
			"$inc": bson.M{"released_amount": int64(rel.Amount)},
			"$set": bson.M{"updated_at": now()},
		},
	)
	if err != nil {
		return fmt.Errorf("vesting/mongo: record release: %w", err)
	}
	if res.MatchedCount == 0 {
		return vesting.ErrNoActiveSchedule
	}

	if _, err := s.mdb.NewInsert(toReleaseModel(rel)).Exec(ctx); err != nil {
		return fmt.Errorf("vesting/mongo: append release: %w", err)
	}
	return nil
}

func (s *Store) RevokeSchedule(ctx context.Context, scheduleID id.ScheduleID, settlement *schedule.Release, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"active":     false,
			"revoked_at": at,
			"updated_at": now(),
		},
	}
	if settlement != nil {
		update["$inc"] = bson.M{"released_amount": int64(settlement.Amount)}
	}

	res, err := s.mdb.Collection(colSchedules).UpdateOne(ctx,
		bson.M{"_id": scheduleID.String(), "active": true},
		update,
	)
	if err != nil {
		return fmt.Errorf("vesting/mongo: revoke schedule: %w", err)
	}
	if res.MatchedCount == 0 {
		return vesting.ErrNoActiveSchedule
	}

	if settlement != nil {
		if _, err := s.mdb.NewInsert(toReleaseModel(settlement)).Exec(ctx); err != nil {
			return fmt.Errorf("vesting/mongo: append settlement: %w", err)
		}
	}
	return nil
}

// ==================== Registry and Aggregate Store ====================

func (s *Store) ListBeneficiaries(ctx context.Context) ([]string, error) {
	var models []registryModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "created_at", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("vesting/mongo: list beneficiaries: %w", err)
	}

	result := make([]string, len(models))
	for i := range models {
		result[i] = models[i].Beneficiary
	}
	return result, nil
}

func (s *Store) CountActive(ctx context.Context) (int, error) {
	count, err := s.mdb.Collection(colSchedules).CountDocuments(ctx, bson.M{"active": true})
	if err != nil {
		return 0, fmt.Errorf("vesting/mongo: count active: %w", err)
	}
	return int(count), nil
}

func (s *Store) Totals(ctx context.Context) (vestingstore.Totals, error) {
	pipeline := bson.A{
		bson.M{
			"$group": bson.M{
				"_id":      nil,
				"vesting":  bson.M{"$sum": "$total_amount"},
				"released": bson.M{"$sum": "$released_amount"},
			},
		},
	}

	cursor, err := s.mdb.Collection(colSchedules).Aggregate(ctx, pipeline)
	if err != nil {
		return vestingstore.Totals{}, fmt.Errorf("vesting/mongo: totals: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Vesting  int64 `bson:"vesting"`
		Released int64 `bson:"released"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return vestingstore.Totals{}, fmt.Errorf("vesting/mongo: totals decode: %w", err)
	}

	if len(results) == 0 {
		return vestingstore.Totals{}, nil
	}
	return vestingstore.Totals{
		TotalVesting:  vesting.Amount(results[0].Vesting),
		TotalReleased: vesting.Amount(results[0].Released),
	}, nil
}

func (s *Store) ListReleases(ctx context.Context, beneficiary string, opts schedule.HistoryOpts) ([]*schedule.Release, error) {
	var models []releaseModel

	filter := bson.M{}
	if beneficiary != "" {
		filter["beneficiary"] = beneficiary
	}
	window := bson.M{}
	if !opts.Start.IsZero() {
		window["$gte"] = opts.Start
	}
	if !opts.End.IsZero() {
		window["$lte"] = opts.End
	}
	if len(window) > 0 {
		filter["released_at"] = window
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "released_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("vesting/mongo: list releases: %w", err)
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

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all vesting collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colSchedules: {
			{
				Keys: bson.D{{Key: "beneficiary", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"active": true}),
			},
			{Keys: bson.D{{Key: "beneficiary", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "active", Value: 1}}},
		},
		colRegistry: {
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		colReleases: {
			{Keys: bson.D{{Key: "beneficiary", Value: 1}, {Key: "released_at", Value: 1}}},
			{Keys: bson.D{{Key: "schedule_id", Value: 1}}},
		},
	}
}
