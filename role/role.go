// Package role provides the authorization table for the vesting ledger.
//
// Authority is modeled as an explicit role table keyed by identity rather
// than a single implicit global owner: exactly one Owner exists at a time,
// plus any number of AuthorizedCreator identities the owner has granted.
package role

import (
	"errors"
	"sort"
	"sync"
)

// Role names a capability level in the table.
type Role string

const (
	// Owner is the single administrative authority. Owners hold every
	// capability, including ownership transfer and revocation.
	Owner Role = "owner"

	// AuthorizedCreator may create schedules but not revoke them or
	// transfer ownership.
	AuthorizedCreator Role = "authorized_creator"
)

// Checker is the capability-lookup interface consumed by the engine.
type Checker interface {
	// Has reports whether identity holds the given role.
	Has(identity string, r Role) bool

	// OwnerID returns the current owner identity.
	OwnerID() string
}

var (
	// ErrInvalidOwner indicates an empty or missing owner identity.
	ErrInvalidOwner = errors.New("role: invalid owner identity")

	// ErrInvalidIdentity indicates an empty identity in a grant or revoke.
	ErrInvalidIdentity = errors.New("role: invalid identity")
)

// Table is the concrete in-process role table.
type Table struct {
	mu       sync.RWMutex
	owner    string
	creators map[string]struct{}
}

// Ensure Table implements Checker at compile time.
var _ Checker = (*Table)(nil)

// NewTable creates a role table with the given owner. Panics on an empty
// owner: a ledger without an authority is a programming error.
func NewTable(owner string) *Table {
	if owner == "" {
		panic("role: empty owner identity")
	}
	return &Table{
		owner:    owner,
		creators: make(map[string]struct{}),
	}
}

// Has implements Checker. The owner implicitly holds every role.
func (t *Table) Has(identity string, r Role) bool {
	if identity == "" {
		return false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if identity == t.owner {
		return true
	}
	if r == AuthorizedCreator {
		_, ok := t.creators[identity]
		return ok
	}
	return false
}

// OwnerID implements Checker.
func (t *Table) OwnerID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.owner
}

// TransferOwner replaces the current owner. The single-authority invariant
// holds throughout: there is never a moment with zero or two owners.
func (t *Table) TransferOwner(newOwner string) error {
	if newOwner == "" {
		return ErrInvalidOwner
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.owner = newOwner
	// A creator promoted to owner no longer needs the explicit grant.
	delete(t.creators, newOwner)
	return nil
}

// Grant adds identity to the AuthorizedCreator set. Granting to the current
// owner is a no-op since the owner already holds every role.
func (t *Table) Grant(identity string) error {
	if identity == "" {
		return ErrInvalidIdentity
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if identity == t.owner {
		return nil
	}
	t.creators[identity] = struct{}{}
	return nil
}

// Revoke removes identity from the AuthorizedCreator set.
func (t *Table) Revoke(identity string) error {
	if identity == "" {
		return ErrInvalidIdentity
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.creators, identity)
	return nil
}

// Creators returns the sorted AuthorizedCreator identities.
func (t *Table) Creators() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.creators))
	for identity := range t.creators {
		out = append(out, identity)
	}
	sort.Strings(out)
	return out
}
