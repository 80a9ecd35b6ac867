package extension

import (
	vesting "github.com/xraph/vesting"
	"github.com/xraph/vesting/plugin"
	"github.com/xraph/vesting/store"
	"github.com/xraph/vesting/token"
)

// Option configures the Vesting Forge extension.
type Option func(*Extension)

// WithStore sets the store for the vesting engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithTokenLedger sets the external token ledger the engine settles
// releases against.
func WithTokenLedger(l token.Ledger) Option {
	return func(e *Extension) {
		e.tokens = l
	}
}

// WithOwner sets the identity holding the owner role.
func WithOwner(owner string) Option {
	return func(e *Extension) { e.config.Owner = owner }
}

// WithTokenAddress sets the token contract address reported to callers.
func WithTokenAddress(addr string) Option {
	return func(e *Extension) { e.config.TokenAddress = addr }
}

// WithVestingOption passes a vesting.Option through to the underlying engine.
func WithVestingOption(opt vesting.Option) Option {
	return func(e *Extension) {
		e.vestingOpts = append(e.vestingOpts, opt)
	}
}

// WithPlugin registers a vesting plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.vestingOpts = append(e.vestingOpts, vesting.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
