// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file — `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `SEONET_`, where `__` maps to “.”
     (e.g., `SEONET_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs,
defaulted, resolved against Vault, validated, enriched with the runtime
root path, and cached in an `atomic.Pointer` for lock-free reads.
`Reload()` simply calls `Load()` again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed (bootstrap console).

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/seonetd` work from any sub-directory.
  • `vault:` URIs are resolved only for `database.password`; see
    `resolveSecrets` for the accepted URI shape.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/seonet/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves SEONET_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("SEONET_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: SEONET_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("SEONET_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	applyDefaults(&cfg)

	if err := resolveSecrets(&cfg); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"change_note_min", cfg.Audit.ChangeNoteMin,
		"high_tier_threshold", cfg.Notify.HighTierThreshold,
		"lock_wait_seconds", cfg.Lock.WaitSeconds,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// applyDefaults fills policy knobs that the YAML left at zero.
func applyDefaults(cfg *Config) {
	if cfg.Audit.ChangeNoteMin == 0 {
		cfg.Audit.ChangeNoteMin = 10
	}
	if cfg.Notify.HighTierThreshold == 0 {
		cfg.Notify.HighTierThreshold = 3
	}
	if cfg.Lock.WaitSeconds == 0 {
		cfg.Lock.WaitSeconds = 5
	}
}

/*──────────────────────────── vault resolution ────────────────────────────*/

// resolveSecrets swaps any `vault:` URI in the config for its secret value.
//
// URI shape: `vault:<mount>/<path>#<key>`, e.g.
// `vault:secret/seonet/db#password`.  Only database.password is resolved
// today; extend here as more secret-bearing fields appear.
func resolveSecrets(cfg *Config) error {
	if !strings.HasPrefix(cfg.Database.Password, "vault:") {
		return nil
	}

	uri := strings.TrimPrefix(cfg.Database.Password, "vault:")
	path, key, ok := strings.Cut(uri, "#")
	if !ok || path == "" || key == "" {
		return fmt.Errorf("config: malformed vault URI %q, want vault:<path>#<key>", cfg.Database.Password)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cli, err := vault.New(ctx, zap.S().Infof)
	if err != nil {
		return fmt.Errorf("config: vault client: %w", err)
	}

	val, err := cli.GetKV(ctx, path, key, 0)
	if err != nil {
		return fmt.Errorf("config: vault lookup %s#%s: %w", path, key, err)
	}

	cfg.Database.Password = val
	zap.S().Debugw("config secret resolved from vault", "path", path, "key", key)
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
