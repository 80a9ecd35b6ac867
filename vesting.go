package vesting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/plugin"
	"github.com/xraph/vesting/role"
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/store"
	"github.com/xraph/vesting/token"
	"github.com/xraph/vesting/types"
)

// Engine is the vesting ledger. It owns every schedule record and the
// aggregate counters, enforces authorization through the role table, and
// settles releases against the external token ledger.
//
// Mutations targeting the same beneficiary are serialized; operations on
// different beneficiaries proceed concurrently.
type Engine struct {
	store     store.Store
	tokens    token.Ledger
	authority *role.Table
	plugins   *plugin.Registry
	clock     Clock
	logger    *slog.Logger

	// Per-beneficiary serialization for mutating operations.
	locks beneficiaryLocks

	mu           sync.RWMutex
	tokenAddress string
}

// New creates a new Engine over the given store and token ledger, owned by
// the given identity.
func New(s store.Store, tokens token.Ledger, owner string, opts ...Option) *Engine {
	e := &Engine{
		store:     s,
		tokens:    tokens,
		authority: role.NewTable(owner),
		plugins:   plugin.NewRegistry(),
		clock:     systemClock{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithClock sets the time source. Defaults to the system clock in UTC.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithTokenAddress sets the token contract address reported to callers.
func WithTokenAddress(addr string) Option {
	return func(e *Engine) {
		e.tokenAddress = addr
	}
}

// Start migrates the store and initializes plugins.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("vesting engine started",
		"owner", e.authority.OwnerID(),
	)

	return nil
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	e.plugins.EmitShutdown(context.Background())
	return e.store.Close()
}

// ──────────────────────────────────────────────────
// Schedule creation
// ──────────────────────────────────────────────────

// CreateSchedule creates a vesting schedule for beneficiary starting at the
// current clock time. The caller must hold the Owner or AuthorizedCreator
// role. A beneficiary may hold at most one active schedule; a revoked
// schedule does not block a new one. The duration must be at least one
// second: the curve is computed in whole seconds.
func (e *Engine) CreateSchedule(ctx context.Context, caller, beneficiary string, total types.Amount, cliff, duration time.Duration) (*schedule.Schedule, error) {
	if !e.authority.Has(caller, role.AuthorizedCreator) {
		return nil, ErrUnauthorized
	}
	if beneficiary == "" {
		return nil, ErrInvalidBeneficiary
	}
	if total.IsZero() {
		return nil, ErrInvalidAmount
	}
	// The curve divides by the duration in whole seconds, so anything
	// shorter than a second would leave a zero denominator.
	if duration < time.Second || cliff < 0 || cliff > duration {
		return nil, ErrInvalidDuration
	}

	unlock := e.locks.lock(beneficiary)
	defer unlock()

	now := e.clock.Now()
	sched := &schedule.Schedule{
		Entity:          types.NewEntityAt(now),
		ID:              id.NewScheduleID(),
		Beneficiary:     beneficiary,
		TotalAmount:     total,
		StartTime:       now,
		CliffDuration:   cliff,
		VestingDuration: duration,
		Active:          true,
	}

	if err := e.store.CreateSchedule(ctx, sched); err != nil {
		return nil, err
	}

	e.logger.Info("schedule created",
		"schedule_id", sched.ID.String(),
		"beneficiary", beneficiary,
		"total", total.String(),
		"cliff", cliff,
		"duration", duration,
	)

	e.plugins.EmitScheduleCreated(ctx, &CreationEvent{
		ScheduleID:  sched.ID,
		Beneficiary: beneficiary,
		TotalAmount: total,
		StartTime:   now,
	})

	return sched, nil
}

// ──────────────────────────────────────────────────
// Settlement
// ──────────────────────────────────────────────────

// Release pays out every vested-but-unreleased token to beneficiary. The
// caller must be the beneficiary or hold the Owner role. The external
// token transfer and the accounting commit form one failure-atomic unit:
// a failed transfer leaves the released amount untouched, and the caller
// decides whether to retry.
func (e *Engine) Release(ctx context.Context, caller, beneficiary string) (types.Amount, error) {
	if caller != beneficiary && !e.authority.Has(caller, role.Owner) {
		return 0, ErrUnauthorized
	}

	unlock := e.locks.lock(beneficiary)
	defer unlock()

	sched, err := e.store.GetActiveSchedule(ctx, beneficiary)
	if err != nil {
		return 0, err
	}

	now := e.clock.Now()
	releasable := sched.ReleasableAt(now)
	if releasable.IsZero() {
		return 0, ErrNothingToRelease
	}

	rel := &schedule.Release{
		ID:          id.NewReleaseID(),
		ScheduleID:  sched.ID,
		Beneficiary: beneficiary,
		Amount:      releasable,
		Kind:        schedule.KindRelease,
		ReleasedAt:  now,
	}
	if err := e.settle(ctx, rel); err != nil {
		return 0, err
	}

	e.plugins.EmitTokensReleased(ctx, &ReleaseEvent{
		ID:          rel.ID,
		ScheduleID:  sched.ID,
		Beneficiary: beneficiary,
		Amount:      releasable,
		ReleasedAt:  now,
	})

	return releasable, nil
}

// Revoke settles any outstanding releasable amount to beneficiary, then
// permanently deactivates the schedule. Owner only. A second revoke fails
// with ErrNoActiveSchedule.
func (e *Engine) Revoke(ctx context.Context, caller, beneficiary string) error {
	if !e.authority.Has(caller, role.Owner) {
		return ErrUnauthorized
	}

	unlock := e.locks.lock(beneficiary)
	defer unlock()

	sched, err := e.store.GetActiveSchedule(ctx, beneficiary)
	if err != nil {
		return err
	}

	now := e.clock.Now()
	releasable := sched.ReleasableAt(now)

	var settlement *schedule.Release
	if !releasable.IsZero() {
		settlement = &schedule.Release{
			ID:          id.NewReleaseID(),
			ScheduleID:  sched.ID,
			Beneficiary: beneficiary,
			Amount:      releasable,
			Kind:        schedule.KindSettlement,
			ReleasedAt:  now,
		}
		if err := e.transfer(ctx, beneficiary, releasable); err != nil {
			return err
		}
	}

	if err := e.store.RevokeSchedule(ctx, sched.ID, settlement, now); err != nil {
		if settlement != nil {
			// Tokens already moved; surface for operator reconciliation.
			e.logger.Error("revocation commit failed after transfer",
				"schedule_id", sched.ID.String(),
				"beneficiary", beneficiary,
				"amount", releasable.String(),
				"error", err,
			)
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}
		return err
	}

	e.logger.Info("schedule revoked",
		"schedule_id", sched.ID.String(),
		"beneficiary", beneficiary,
		"settled", releasable.String(),
	)

	if settlement != nil {
		e.plugins.EmitTokensReleased(ctx, &ReleaseEvent{
			ID:          settlement.ID,
			ScheduleID:  sched.ID,
			Beneficiary: beneficiary,
			Amount:      releasable,
			ReleasedAt:  now,
			Settlement:  true,
		})
	}
	e.plugins.EmitScheduleRevoked(ctx, &RevocationEvent{
		ID:          id.NewRevocationID(),
		ScheduleID:  sched.ID,
		Beneficiary: beneficiary,
		Settled:     releasable,
		RevokedAt:   now,
	})

	return nil
}

// settle performs the transfer-then-commit sequence for a release record.
func (e *Engine) settle(ctx context.Context, rel *schedule.Release) error {
	if err := e.transfer(ctx, rel.Beneficiary, rel.Amount); err != nil {
		return err
	}

	if err := e.store.RecordRelease(ctx, rel); err != nil {
		// Tokens already moved; surface for operator reconciliation.
		e.logger.Error("release commit failed after transfer",
			"schedule_id", rel.ScheduleID.String(),
			"beneficiary", rel.Beneficiary,
			"amount", rel.Amount.String(),
			"error", err,
		)
		return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	e.logger.Info("tokens released",
		"schedule_id", rel.ScheduleID.String(),
		"beneficiary", rel.Beneficiary,
		"amount", rel.Amount.String(),
		"kind", string(rel.Kind),
	)

	return nil
}

// transfer invokes the external token ledger with failure reporting.
func (e *Engine) transfer(ctx context.Context, beneficiary string, amount types.Amount) error {
	if err := e.tokens.Transfer(ctx, beneficiary, amount); err != nil {
		e.logger.Warn("token transfer failed",
			"beneficiary", beneficiary,
			"amount", amount.String(),
			"error", err,
		)
		e.plugins.EmitTransferFailed(ctx, beneficiary, err)
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Read accessors (no authorization required)
// ──────────────────────────────────────────────────

// VestedAmount returns the amount vested for beneficiary as of the current
// clock time, or zero if no active schedule exists. Pure query: repeated
// calls at a fixed time return the same value.
func (e *Engine) VestedAmount(ctx context.Context, beneficiary string) (types.Amount, error) {
	sched, err := e.store.GetActiveSchedule(ctx, beneficiary)
	if err != nil {
		if errors.Is(err, ErrNoActiveSchedule) {
			return 0, nil
		}
		return 0, err
	}
	return sched.VestedAt(e.clock.Now()), nil
}

// ReleasableAmount returns the vested-but-unreleased amount for
// beneficiary, or zero if no active schedule exists.
func (e *Engine) ReleasableAmount(ctx context.Context, beneficiary string) (types.Amount, error) {
	sched, err := e.store.GetActiveSchedule(ctx, beneficiary)
	if err != nil {
		if errors.Is(err, ErrNoActiveSchedule) {
			return 0, nil
		}
		return 0, err
	}
	return sched.ReleasableAt(e.clock.Now()), nil
}

// GetSchedule returns the active schedule for beneficiary.
func (e *Engine) GetSchedule(ctx context.Context, beneficiary string) (*schedule.Schedule, error) {
	return e.store.GetActiveSchedule(ctx, beneficiary)
}

// GetScheduleByID returns any schedule, active or revoked.
func (e *Engine) GetScheduleByID(ctx context.Context, scheduleID id.ScheduleID) (*schedule.Schedule, error) {
	return e.store.GetSchedule(ctx, scheduleID)
}

// ListSchedules returns schedules in registry order.
func (e *Engine) ListSchedules(ctx context.Context, opts schedule.ListOpts) ([]*schedule.Schedule, error) {
	return e.store.ListSchedules(ctx, opts)
}

// ListBeneficiaries returns the append-only registry of every beneficiary
// that has ever had a schedule created, in creation order.
func (e *Engine) ListBeneficiaries(ctx context.Context) ([]string, error) {
	return e.store.ListBeneficiaries(ctx)
}

// ReleaseHistory returns settlement records for beneficiary, or for all
// beneficiaries when beneficiary is empty.
func (e *Engine) ReleaseHistory(ctx context.Context, beneficiary string, opts schedule.HistoryOpts) ([]*schedule.Release, error) {
	return e.store.ListReleases(ctx, beneficiary, opts)
}

// Stats returns the ledger-wide aggregates. The beneficiary count comes
// from the live index of active schedules, not the registry log.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	count, err := e.store.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := e.store.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		BeneficiaryCount: count,
		TotalVesting:     totals.TotalVesting,
		TotalReleased:    totals.TotalReleased,
	}, nil
}

// ──────────────────────────────────────────────────
// Administration
// ──────────────────────────────────────────────────

// Owner returns the current owner identity.
func (e *Engine) Owner() string {
	return e.authority.OwnerID()
}

// TransferOwnership hands the Owner role to newOwner. Owner only. Exactly
// one owner exists at every moment.
func (e *Engine) TransferOwnership(ctx context.Context, caller, newOwner string) error {
	if !e.authority.Has(caller, role.Owner) {
		return ErrUnauthorized
	}
	if newOwner == "" {
		return ErrInvalidOwner
	}

	oldOwner := e.authority.OwnerID()
	if err := e.authority.TransferOwner(newOwner); err != nil {
		return ErrInvalidOwner
	}

	e.logger.Info("ownership transferred",
		"old_owner", oldOwner,
		"new_owner", newOwner,
	)
	e.plugins.EmitOwnershipTransferred(ctx, oldOwner, newOwner)
	return nil
}

// GrantCreator grants the AuthorizedCreator role to identity. Owner only.
func (e *Engine) GrantCreator(_ context.Context, caller, identity string) error {
	if !e.authority.Has(caller, role.Owner) {
		return ErrUnauthorized
	}
	if err := e.authority.Grant(identity); err != nil {
		return ErrInvalidBeneficiary
	}
	e.logger.Info("creator granted", "identity", identity)
	return nil
}

// RevokeCreator removes the AuthorizedCreator role from identity. Owner only.
func (e *Engine) RevokeCreator(_ context.Context, caller, identity string) error {
	if !e.authority.Has(caller, role.Owner) {
		return ErrUnauthorized
	}
	if err := e.authority.Revoke(identity); err != nil {
		return ErrInvalidBeneficiary
	}
	e.logger.Info("creator revoked", "identity", identity)
	return nil
}

// TokenAddress returns the configured token contract address.
func (e *Engine) TokenAddress() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tokenAddress
}

// UpdateTokenAddress changes the token contract address. Owner only.
func (e *Engine) UpdateTokenAddress(_ context.Context, caller, addr string) error {
	if !e.authority.Has(caller, role.Owner) {
		return ErrUnauthorized
	}
	if addr == "" {
		return ErrInvalidTokenAddress
	}

	e.mu.Lock()
	e.tokenAddress = addr
	e.mu.Unlock()

	e.logger.Info("token address updated", "address", addr)
	return nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// beneficiaryLocks serializes mutations per beneficiary. Entries are never
// freed; the footprint is bounded by the registry, which is itself
// append-only.
type beneficiaryLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (b *beneficiaryLocks) lock(key string) func() {
	b.mu.Lock()
	if b.locks == nil {
		b.locks = make(map[string]*sync.Mutex)
	}
	l, ok := b.locks[key]
	if !ok {
		l = &sync.Mutex{}
		b.locks[key] = l
	}
	b.mu.Unlock()

	l.Lock()
	return l.Unlock
}
