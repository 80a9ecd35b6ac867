package vesting

import (
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/types"
)

// Re-export common types for convenience so users don't have to import the
// types package.

// Amount is re-exported from types package.
type Amount = types.Amount

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Amount helpers
var (
	Tokens     = types.Tokens
	SumAmounts = types.SumAmounts
)

// Re-export Entity constructor
var NewEntity = types.NewEntity

// Day is one calendar day, re-exported from the schedule package for
// expressing cliff and vesting durations.
const Day = schedule.Day

// Days converts a whole number of days to a duration.
var Days = schedule.Days
