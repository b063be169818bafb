// Package config provides configuration loading and management for graspctl.
//
// Configuration is loaded using Viper, supporting YAML config files and environment
// variable overrides. The package provides defaults matching the standard grasp
// task (Generate, Choose, Approach, Grasp, Lift) so the panel works without any
// configuration file.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [PhasesConfig] defines the phase sequence and its sequencing policy
//   - [ControlConfig] defines one bounded numeric parameter
//
// Configuration priority (highest to lowest):
//  1. Environment variables (GRASPCTL_ prefix)
//  2. Config file specified by GRASPCTL_CONFIG_PATH
//  3. User config directory (platform-standard), e.g. ~/.config/graspctl/graspctl.yaml
//  4. ./graspctl.yaml
//  5. [DefaultConfig] defaults
package config

// Config represents the root configuration structure.
//
// Use [DefaultConfig] to get sensible defaults.
type Config struct {
	// Phases defines the task phase sequence.
	Phases PhasesConfig `mapstructure:"phases"`

	// Controls lists the numeric parameters shown on the panel, in display order.
	Controls []ControlConfig `mapstructure:"controls"`

	// Candidates configures where grasp candidates are read from.
	Candidates CandidatesConfig `mapstructure:"candidates"`

	// Display holds the operator's grasp display filter.
	Display DisplayConfig `mapstructure:"display"`

	// Log configures structured logging.
	Log LogConfig `mapstructure:"log"`

	// Bridge configures forwarding of operator intents over NATS.
	Bridge BridgeConfig `mapstructure:"bridge"`
}

// PhasesConfig defines the ordered phase sequence.
type PhasesConfig struct {
	// Names is the ordered list of phase names. Names must be unique.
	// Default: ["Generate", "Choose", "Approach", "Grasp", "Lift"]
	Names []string `mapstructure:"names"`

	// AutomaticTransitions advances the next phase to ready when a phase completes.
	// Default: false
	AutomaticTransitions bool `mapstructure:"automatic_transitions"`

	// FirstReady starts the first phase in ready instead of not-ready.
	// Default: false
	FirstReady bool `mapstructure:"first_ready"`

	// Commands maps phase names to the shell command that executes the phase.
	// Phases without a command complete as soon as they are run.
	Commands map[string]string `mapstructure:"commands"`
}

// ControlConfig defines one bounded integer parameter.
//
// Malformed ranges are not rejected; they are normalized when the control is
// built (see control.New).
type ControlConfig struct {
	Label   string `mapstructure:"label"`
	Min     int    `mapstructure:"min"`
	Max     int    `mapstructure:"max"`
	Default int    `mapstructure:"default"`
}

// CandidatesConfig configures the grasp candidate file.
type CandidatesConfig struct {
	// Path is the candidate YAML file. Empty means auto-discovery.
	// Can be overridden with GRASPCTL_CANDIDATES_PATH.
	Path string `mapstructure:"path"`

	// Watch re-reads the file whenever it changes while the panel is open.
	// Default: true
	Watch bool `mapstructure:"watch"`
}

// DisplayConfig is the grasp display filter the operator toggles on the
// panel. The panel does not filter candidates itself; the choice is published
// over the bridge so the planner can regenerate the candidate set.
type DisplayConfig struct {
	// ShowInverted includes grasps with an inverted gripper orientation.
	ShowInverted bool `mapstructure:"show_inverted" json:"show_inverted"`

	// BothSides includes grasps approaching from either side of the object.
	BothSides bool `mapstructure:"both_sides" json:"both_sides"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR. Default: INFO
	Level string `mapstructure:"level"`

	// Dir is the directory for graspctl.log. Empty logs to stderr for
	// headless commands and discards output for the panel.
	Dir string `mapstructure:"dir"`
}

// BridgeConfig configures the NATS intent bridge.
type BridgeConfig struct {
	// NATSURL is the server to publish intents to. Empty disables the bridge.
	NATSURL string `mapstructure:"nats_url"`

	// SubjectPrefix is prepended to every intent subject.
	// Default: "graspctl"
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// DefaultPhaseNames is the standard grasp task sequence.
var DefaultPhaseNames = []string{"Generate", "Choose", "Approach", "Grasp", "Lift"}

// DefaultConfig returns a new [Config] with sensible defaults.
func DefaultConfig() *Config {
	names := make([]string, len(DefaultPhaseNames))
	copy(names, DefaultPhaseNames)

	return &Config{
		Phases: PhasesConfig{
			Names:    names,
			Commands: map[string]string{},
		},
		Controls: []ControlConfig{
			{Label: "hand y", Min: -500, Max: 500, Default: 0},
			{Label: "hand distance", Min: -500, Max: 500, Default: 0},
			{Label: "test", Min: -5000, Max: 5000, Default: 0},
		},
		Candidates: CandidatesConfig{
			Watch: true,
		},
		Log: LogConfig{
			Level: "INFO",
		},
		Bridge: BridgeConfig{
			SubjectPrefix: "graspctl",
		},
	}
}
