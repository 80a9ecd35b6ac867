// Package vesting provides an embeddable token vesting ledger for Go applications.
//
// Vesting is designed as a library, not a service. Import it directly into your
// Go application to manage linear vesting schedules against any token ledger.
// It provides:
//
//   - Linear vesting with configurable cliff and duration
//   - Partial release of vested tokens at any point on the curve
//   - Revocation with automatic settlement of the outstanding amount
//   - Role-based authorization (owner, authorized creators)
//   - An append-only beneficiary registry and release history
//   - Pluggable storage (memory, SQLite, Postgres, MongoDB)
//
// # Quick Start
//
// Create an engine with your preferred store and token ledger:
//
//	import (
//	    "github.com/xraph/vesting"
//	    "github.com/xraph/vesting/store/memory"
//	    "github.com/xraph/vesting/token"
//	)
//
//	store := memory.New()
//	tokens := token.NewMemory(vesting.Tokens(1_000_000, 0))
//
//	v := vesting.New(store, tokens, "owner")
//	if err := v.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Stop()
//
// # Core Concepts
//
// Schedules commit a total amount to a beneficiary over a vesting duration:
//
//	sched, err := v.CreateSchedule(ctx, "owner", "alice",
//	    vesting.Tokens(1200, 0), 30*vesting.Day, 365*vesting.Day)
//
// Nothing is claimable before the cliff. Afterwards tokens vest linearly
// from the start time, reaching the full amount at the end of the duration:
//
//	vested, err := v.VestedAmount(ctx, "alice")
//
// Releasing pays out every vested-but-unreleased token through the external
// token ledger:
//
//	paid, err := v.Release(ctx, "alice", "alice")
//
// Revocation settles the outstanding releasable amount and permanently
// deactivates the schedule; the unvested remainder stays with the owner:
//
//	err := v.Revoke(ctx, "owner", "alice")
//
// # Arithmetic
//
// All amounts are unsigned 64-bit integers in the token's smallest unit.
// Vested amounts are computed with 128-bit intermediate multiplication, so
// floor(total * elapsed / duration) is exact for any uint64 total.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	vsch_01h2xcejqtf2nbrexx3vqjhp41  // Schedule ID
//	rls_01h455vb4pex5vsknk084sn02q   // Release ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package vesting
