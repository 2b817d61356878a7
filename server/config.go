package server

import (
	"fmt"
	"time"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// Config is a configuration for a server. It contains all parameters that can
// be used to configure the operation of a Server.
type Config struct {

	// TokenSecret is the secret used for signing tokens. If not provided, a
	// default key is used.
	TokenSecret []byte

	// Database is the configuration to use for connecting to the database. If
	// not provided, it will be set to a configuration for using an in-memory
	// persistence layer.
	DB Database

	// UnauthDelayMillis is the amount of additional time to wait
	// (in milliseconds) before sending a response that indicates either that
	// the client was unauthorized or the client was unauthenticated. This is
	// something of an "anti-flood" measure for naive clients attempting
	// non-parallel connections. If not set it will default to 1 second
	// (1000ms). Set this to any negative number to disable the delay.
	UnauthDelayMillis int

	// MaxTrees is the most parse trees returned for a single parse request.
	// Zero means no limit.
	MaxTrees int

	// MaxSteps bounds the tree-extraction work done for a single parse
	// request. A parse that reaches it returns the trees found so far and is
	// reported as truncated. Zero means no limit; this is only safe when every
	// grammar uploaded is trusted.
	MaxSteps int

	// MaxGrammars is how many grammars each non-admin user may store unless
	// the user has a quota of their own. Zero means no limit.
	MaxGrammars int

	// AdminPassword, if set, is used as the password of an admin account named
	// "admin" created when the server starts if it does not already exist.
	AdminPassword string

	// PasswordCost is the bcrypt cost used to hash passwords. Zero uses the
	// service default.
	PasswordCost int
}

// DefaultMaxSteps is the MaxSteps used when one is not set in a Config passed
// through FillDefaults.
const DefaultMaxSteps = 1000000

// DefaultMaxGrammars is the MaxGrammars used when one is not set in a Config
// passed through FillDefaults.
const DefaultMaxGrammars = 100

// UnauthDelay returns the configured time for the UnauthDelay as a
// time.Duration. If cfg.UnauthDelayMS is set to a number less than 0, this will
// return a zero-valued time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		var dur time.Duration
		return dur
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.TokenSecret == nil {
		newCFG.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if newCFG.DB.Type == "" || newCFG.DB.Type == DatabaseNone {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}
	if newCFG.MaxSteps == 0 {
		newCFG.MaxSteps = DefaultMaxSteps
	}
	if newCFG.MaxGrammars == 0 {
		newCFG.MaxGrammars = DefaultMaxGrammars
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}

	if cfg.MaxTrees < 0 {
		return fmt.Errorf("max trees: must not be negative")
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("max steps: must not be negative")
	}
	if cfg.MaxGrammars < 0 {
		return fmt.Errorf("max grammars: must not be negative")
	}

	// all possible values for UnauthDelayMS are valid, so no need to check it

	return nil
}
