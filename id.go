package vesting

import "github.com/xraph/vesting/id"

// ID is the primary identifier type for all vesting entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
