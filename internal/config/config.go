package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "GRASPCTL"

// ConfigFileName is the file name searched for in the config directories.
const ConfigFileName = "graspctl.yaml"

// ErrInvalidConfig is wrapped by [Config.Validate] failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Loader handles Viper-based configuration loading.
//
// Create with [NewLoader]. Each Loader owns its own viper instance, so tests
// can load several configurations side by side.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new [Loader] with defaults and environment bindings set.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short aliases documented for operators.
	_ = v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL")
	_ = v.BindEnv("log.dir", EnvPrefix+"_LOG_DIR")
	_ = v.BindEnv("candidates.path", EnvPrefix+"_CANDIDATES_PATH")
	_ = v.BindEnv("bridge.nats_url", EnvPrefix+"_NATS_URL")

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("phases.names", d.Phases.Names)
	v.SetDefault("phases.automatic_transitions", d.Phases.AutomaticTransitions)
	v.SetDefault("phases.first_ready", d.Phases.FirstReady)
	v.SetDefault("phases.commands", d.Phases.Commands)

	controls := make([]map[string]any, len(d.Controls))
	for i, c := range d.Controls {
		controls[i] = map[string]any{
			"label":   c.Label,
			"min":     c.Min,
			"max":     c.Max,
			"default": c.Default,
		}
	}
	v.SetDefault("controls", controls)

	v.SetDefault("candidates.path", d.Candidates.Path)
	v.SetDefault("candidates.watch", d.Candidates.Watch)
	v.SetDefault("display.show_inverted", d.Display.ShowInverted)
	v.SetDefault("display.both_sides", d.Display.BothSides)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("bridge.nats_url", d.Bridge.NATSURL)
	v.SetDefault("bridge.subject_prefix", d.Bridge.SubjectPrefix)
}

// Load reads configuration from the first config file found and applies
// environment overrides. A missing config file is not an error.
//
// Search order:
//  1. GRASPCTL_CONFIG_PATH
//  2. <user config dir>/graspctl/graspctl.yaml
//  3. ./graspctl.yaml
func (l *Loader) Load() (*Config, error) {
	if path := findConfigFile(); path != "" {
		return l.LoadFromFile(path)
	}
	return l.unmarshal()
}

// LoadFromFile reads configuration from the given YAML file, then applies
// environment overrides.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	l.v.SetConfigType("yaml")
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return l.unmarshal()
}

// ConfigFileUsed returns the file the last load read, or "" if none.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Phases.Commands == nil {
		cfg.Phases.Commands = map[string]string{}
	}
	return &cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_PATH"); p != "" {
		return p
	}

	var candidates []string
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "graspctl", ConfigFileName))
	}
	candidates = append(candidates, ConfigFileName)

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate reports problems that cannot be normalized away: empty or
// duplicate phase names, commands for unknown phases, and unlabeled controls.
func (c *Config) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Phases.Names))
	folded := make(map[string]bool, len(c.Phases.Names))
	for i, name := range c.Phases.Names {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("phases.names[%d] is empty", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("phases.names: duplicate phase %q", name))
		}
		seen[name] = true
		folded[strings.ToLower(name)] = true
	}

	// Viper lowercases map keys, so commands are matched case-insensitively.
	for name := range c.Phases.Commands {
		if !folded[strings.ToLower(name)] {
			errs = append(errs, fmt.Errorf("phases.commands: %q is not a configured phase", name))
		}
	}

	for i, ctl := range c.Controls {
		if ctl.Label == "" {
			errs = append(errs, fmt.Errorf("controls[%d] has no label", i))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Command returns the configured shell command for a phase, if any.
// Phase names are matched case-insensitively.
func (c *Config) Command(phaseName string) (string, bool) {
	for name, cmd := range c.Phases.Commands {
		if strings.EqualFold(name, phaseName) && strings.TrimSpace(cmd) != "" {
			return cmd, true
		}
	}
	return "", false
}
