package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ranjodhsingh/spotlight/internal/logger"
)

// knownKeys lists every key the config file and CLI flags understand, in
// the order Save writes them back out.
var knownKeys = []string{
	"mode", "n-threads",
	"in-dev", "in-fmt", "in-w", "in-h", "in-fps",
	"out-dev", "out-fmt", "out-w", "out-h", "out-fps",
	"bg-img",
}

var errUnknownConfigKey = errors.New("unknown config key")

// Manager assembles the immutable PipelineConfig from three layers, lowest
// priority first: compiled-in defaults, the plain-text config file, and CLI
// flags. Flag keys (without the leading "--") double as config-file keys,
// matching the original daemon's one-flag-one-field contract.
type Manager struct {
	v          *viper.Viper
	configPath string
}

func NewManager(configPath string) *Manager {
	if configPath == "" {
		configPath = DefaultConfigFile
	}
	return &Manager{v: viper.New(), configPath: configPath}
}

func (m *Manager) ConfigPath() string { return m.configPath }

// GetViper exposes the underlying viper instance, following the teacher's
// own config/get/set command pattern of reaching through the Manager for
// ad-hoc key lookups.
func (m *Manager) GetViper() *viper.Viper { return m.v }

// Get returns the resolved value for key, or ok=false if key is unknown to
// Load.
func (m *Manager) Get(key string) (value any, ok bool) {
	if !m.v.IsSet(key) {
		return nil, false
	}
	return m.v.Get(key), true
}

// Set type-checks and applies value for key, overriding whatever Load
// resolved. Callers persist the change with Save.
func (m *Manager) Set(key, value string) error {
	typed, err := typedConfigValue(key, value)
	if err != nil {
		return err
	}
	m.v.Set(key, typed)
	return nil
}

// Save writes every known key's current resolved value back to the
// config file, in the same "key = value" grammar ParseFile reads.
func (m *Manager) Save() error {
	var b strings.Builder
	for _, key := range knownKeys {
		if m.v.IsSet(key) {
			fmt.Fprintf(&b, "%s = %v\n", key, m.v.Get(key))
		}
	}
	return os.WriteFile(m.configPath, []byte(b.String()), 0o644)
}

// BindFlags wires a cobra/pflag flag set into the viper layer so that any
// flag the user actually passed takes precedence over the config file and
// compiled defaults.
func (m *Manager) BindFlags(flags *pflag.FlagSet) error {
	return m.v.BindPFlags(flags)
}

// Load merges the config file on top of compiled defaults, then returns a
// fully resolved PipelineConfig (flags bound via BindFlags are applied when
// present).
func (m *Manager) Load() (PipelineConfig, error) {
	def := Defaults()
	file := ParseFile(m.configPath)

	m.v.SetDefault("mode", string(def.Mode))
	m.v.SetDefault("n-threads", def.NumThreads)
	m.v.SetDefault("in-dev", def.InDev)
	m.v.SetDefault("in-fmt", def.InFmt.String())
	m.v.SetDefault("in-w", def.InWidth)
	m.v.SetDefault("in-h", def.InHeight)
	m.v.SetDefault("in-fps", def.InFPS)
	m.v.SetDefault("out-dev", def.OutDev)
	m.v.SetDefault("out-fmt", def.OutFmt.String())
	m.v.SetDefault("out-w", def.OutWidth)
	m.v.SetDefault("out-h", def.OutHeight)
	m.v.SetDefault("out-fps", def.OutFPS)
	m.v.SetDefault("bg-img", def.BgImagePath)

	for key, raw := range file {
		if err := m.applyFileValue(key, raw); err != nil {
			logger.WithComponent("config").Warn().Err(err).Str("key", key).
				Msg("ignoring invalid config file value")
		}
	}

	cfg := def
	cfg.Mode, _ = ParseMode(m.v.GetString("mode"))
	cfg.NumThreads = m.v.GetInt("n-threads")
	cfg.InDev = m.v.GetString("in-dev")
	if f, err := ParseFourCC(m.v.GetString("in-fmt")); err == nil {
		cfg.InFmt = f
	}
	cfg.InWidth = m.v.GetInt("in-w")
	cfg.InHeight = m.v.GetInt("in-h")
	cfg.InFPS = m.v.GetFloat64("in-fps")
	cfg.OutDev = m.v.GetString("out-dev")
	if f, err := ParseFourCC(m.v.GetString("out-fmt")); err == nil {
		cfg.OutFmt = f
	}
	cfg.OutWidth = m.v.GetInt("out-w")
	cfg.OutHeight = m.v.GetInt("out-h")
	cfg.OutFPS = m.v.GetFloat64("out-fps")
	cfg.BgImagePath = m.v.GetString("bg-img")

	return cfg, nil
}

// applyFileValue sets a viper default from a raw config-file string,
// type-checking it the way the CLI's own option parser does: failures fall
// back to whatever default was already in effect.
func (m *Manager) applyFileValue(key, raw string) error {
	typed, err := typedConfigValue(key, raw)
	if err != nil {
		if errors.Is(err, errUnknownConfigKey) {
			logger.WithComponent("config").Warn().Str("key", key).Msg("unknown config key")
			return nil
		}
		return err
	}
	m.v.SetDefault(key, typed)
	return nil
}

// typedConfigValue type-checks a raw string against key's expected type,
// shared by file parsing (Load) and Set, which backs the config CLI's set
// subcommand.
func typedConfigValue(key, raw string) (any, error) {
	switch key {
	case "mode":
		if _, err := ParseMode(raw); err != nil {
			return nil, err
		}
		return raw, nil
	case "n-threads", "in-w", "in-h", "out-w", "out-h":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		return n, nil
	case "in-fps", "out-fps":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "in-fmt", "out-fmt":
		if _, err := ParseFourCC(raw); err != nil {
			return nil, err
		}
		return raw, nil
	case "in-dev", "out-dev", "bg-img":
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownConfigKey, key)
	}
}
