// internal/config/model.go
//
// Typed configuration model for the network structure engine.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `SEONET_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *after* unmarshalling, so the rest of the app
// never sees Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host,
// port, or flags without touching Vault.  The *secret* portion
// (`Password`) may be a literal or a `vault:` URI; the loader resolves
// the latter at boot, keeping credentials out of flat files and git
// history.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password" validate:"required"`
}

//
// Policy sections
//

// Audit tunes the change-log discipline enforced on every mutation.
type Audit struct {
	// ChangeNoteMin is the minimum accepted change-note length in
	// characters.  Defaults to 10 when unset.
	ChangeNoteMin int `koanf:"change_note_min" validate:"gte=0"`
}

// Notify tunes the notification correlator.
type Notify struct {
	// HighTierThreshold is the tier at or above which an indexable node
	// triggers a high-tier warning.  Defaults to 3 when unset.
	HighTierThreshold int `koanf:"high_tier_threshold" validate:"gte=0"`
}

// Lock tunes the per-network mutation lock.
type Lock struct {
	// WaitSeconds bounds how long a mutation waits for a busy network
	// before the caller is told to retry.  Defaults to 5 when unset.
	WaitSeconds int `koanf:"wait_seconds" validate:"gte=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or SEONET_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // SEONET_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Audit    Audit    `koanf:"audit"`
	Notify   Notify   `koanf:"notify"`
	Lock     Lock     `koanf:"lock"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}

// LockWait converts the configured wait into a time.Duration.
func (c *Config) LockWait() time.Duration {
	return time.Duration(c.Lock.WaitSeconds) * time.Second
}
