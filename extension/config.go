package extension

// Config holds the Vesting extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.vesting" or "vesting" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Owner is the identity holding the owner role. Required: the engine
	// refuses to start without an owner.
	Owner string `json:"owner" mapstructure:"owner" yaml:"owner"`

	// TokenAddress is the token contract address reported to callers.
	TokenAddress string `json:"token_address" mapstructure:"token_address" yaml:"token_address"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{}
}
