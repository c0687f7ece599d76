// Package config provides configuration management for prep.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/prep-cli/internal/domain"
)

// Config holds all configuration for the prep application.
type Config struct {
	Breathing     BreathingConfig     `mapstructure:"breathing"`
	Focus         FocusConfig         `mapstructure:"focus"`
	Visualization VisualizationConfig `mapstructure:"visualization"`
	Notifications NotificationConfig  `mapstructure:"notifications"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Theme         ThemeConfig         `mapstructure:"theme"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorAccent            string `mapstructure:"color_accent"`
	ColorBreathing         string `mapstructure:"color_breathing"`
	ColorFocus             string `mapstructure:"color_focus"`
	ColorPaused            string `mapstructure:"color_paused"`
	ColorTitle             string `mapstructure:"color_title"`
	ColorText              string `mapstructure:"color_text"`
	ColorHelp              string `mapstructure:"color_help"`
	WizardGradientStart    string `mapstructure:"wizard_gradient_start"`
	WizardGradientEnd      string `mapstructure:"wizard_gradient_end"`
	FocusGradientStart     string `mapstructure:"focus_gradient_start"`
	FocusGradientEnd       string `mapstructure:"focus_gradient_end"`
	BreathingGradientStart string `mapstructure:"breathing_gradient_start"`
	BreathingGradientEnd   string `mapstructure:"breathing_gradient_end"`
	IconApp                string `mapstructure:"icon_app"`
	IconChecked            string `mapstructure:"icon_checked"`
	IconUnchecked          string `mapstructure:"icon_unchecked"`
	IconGit                string `mapstructure:"icon_git"`
	IconPaused             string `mapstructure:"icon_paused"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorAccent:            "#7C6FE0",
		ColorBreathing:         "#4ECDC4",
		ColorFocus:             "#7C6FE0",
		ColorPaused:            "#6B7280",
		ColorTitle:             "#A78BFA",
		ColorText:              "#A0AEC0",
		ColorHelp:              "#95A5A6",
		WizardGradientStart:    "#A78BFA",
		WizardGradientEnd:      "#4ECDC4",
		FocusGradientStart:     "#7C6FE0",
		FocusGradientEnd:       "#A78BFA",
		BreathingGradientStart: "#4ECDC4",
		BreathingGradientEnd:   "#2ECC71",
		IconApp:                "📚",
		IconChecked:            "✔",
		IconUnchecked:          "○",
		IconGit:                "🌿",
		IconPaused:             "⏸",
	}
}

// BreathingConfig holds the breathing exercise settings.
type BreathingConfig struct {
	Durations         []int    `mapstructure:"durations"`
	Sentences         []string `mapstructure:"sentences"`
	ClosingLine       string   `mapstructure:"closing_line"`
	SentenceDisplay   Duration `mapstructure:"sentence_display"`
	Fade              Duration `mapstructure:"fade"`
	CompletionDisplay Duration `mapstructure:"completion_display"`
	EndingFade        Duration `mapstructure:"ending_fade"`
}

// ToDomain converts the settings to the exercise configuration, falling back
// to the defaults for anything left empty.
func (c BreathingConfig) ToDomain() domain.BreathingConfig {
	out := domain.DefaultBreathingConfig()
	if len(c.Durations) > 0 {
		var valid []int
		for _, d := range c.Durations {
			if d > 0 {
				valid = append(valid, d)
			}
		}
		if len(valid) > 0 {
			out.Durations = valid
		}
	}
	if len(c.Sentences) > 0 {
		out.Sentences = c.Sentences
	}
	if c.ClosingLine != "" {
		out.ClosingLine = c.ClosingLine
	}
	if c.SentenceDisplay > 0 {
		out.SentenceDisplay = time.Duration(c.SentenceDisplay)
	}
	if c.Fade > 0 {
		out.Fade = time.Duration(c.Fade)
	}
	if c.CompletionDisplay > 0 {
		out.CompletionDisplay = time.Duration(c.CompletionDisplay)
	}
	if c.EndingFade > 0 {
		out.EndingFade = time.Duration(c.EndingFade)
	}
	// A sentence must stay visible for part of its slot.
	if out.Fade >= out.SentenceDisplay {
		out.Fade = out.SentenceDisplay / 5
	}
	return out
}

// VisualizationConfig controls how the highlighted visualization prompt is chosen.
type VisualizationConfig struct {
	RandomPrompts bool  `mapstructure:"random_prompts"`
	Seed          int64 `mapstructure:"seed"`
}

// Selector returns the prompt selection strategy. A zero Seed is replaced by
// fallbackSeed.
func (c VisualizationConfig) Selector(fallbackSeed int64) domain.Selector {
	if !c.RandomPrompts {
		return &domain.SequentialSelector{}
	}
	seed := c.Seed
	if seed == 0 {
		seed = fallbackSeed
	}
	return domain.NewRandomSelector(seed)
}

// FocusConfig holds the final focus session settings.
type FocusConfig struct {
	DefaultMinutes  int      `mapstructure:"default_minutes"`
	Preset1Name     string   `mapstructure:"preset1_name"`
	Preset1Duration Duration `mapstructure:"preset1_duration"`
	Preset2Name     string   `mapstructure:"preset2_name"`
	Preset2Duration Duration `mapstructure:"preset2_duration"`
	Preset3Name     string   `mapstructure:"preset3_name"`
	Preset3Duration Duration `mapstructure:"preset3_duration"`
}

// SessionPreset represents a named focus duration preset.
type SessionPreset struct {
	Name     string
	Duration time.Duration
}

// GetPresets returns the three focus presets.
func (c *FocusConfig) GetPresets() []SessionPreset {
	return []SessionPreset{
		{Name: c.Preset1Name, Duration: time.Duration(c.Preset1Duration)},
		{Name: c.Preset2Name, Duration: time.Duration(c.Preset2Duration)},
		{Name: c.Preset3Name, Duration: time.Duration(c.Preset3Duration)},
	}
}

// Minutes returns the default session length normalized to whole segments.
func (c *FocusConfig) Minutes() int {
	return domain.NormalizeFocusMinutes(float64(c.DefaultMinutes))
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	breathing := domain.DefaultBreathingConfig()
	return &Config{
		Breathing: BreathingConfig{
			Durations:         breathing.Durations,
			Sentences:         breathing.Sentences,
			ClosingLine:       breathing.ClosingLine,
			SentenceDisplay:   Duration(breathing.SentenceDisplay),
			Fade:              Duration(breathing.Fade),
			CompletionDisplay: Duration(breathing.CompletionDisplay),
			EndingFade:        Duration(breathing.EndingFade),
		},
		Focus: FocusConfig{
			DefaultMinutes:  30,
			Preset1Name:     "Quick",
			Preset1Duration: Duration(15 * time.Minute),
			Preset2Name:     "Focus",
			Preset2Duration: Duration(30 * time.Minute),
			Preset3Name:     "Deep",
			Preset3Duration: Duration(60 * time.Minute),
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "~/.prep/prep.log",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load reads the configuration at path, or at the default location when path
// is empty. A missing file is created with the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	v := newViper(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveTo(path, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	logFile, err := expandHome(cfg.Logging.File)
	if err != nil {
		return nil, err
	}
	cfg.Logging.File = logFile

	return &cfg, nil
}

// Save writes the configuration to the default location.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to path.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(path)

	v.Set("breathing.durations", cfg.Breathing.Durations)
	v.Set("breathing.sentences", cfg.Breathing.Sentences)
	v.Set("breathing.closing_line", cfg.Breathing.ClosingLine)
	v.Set("breathing.sentence_display", cfg.Breathing.SentenceDisplay.String())
	v.Set("breathing.fade", cfg.Breathing.Fade.String())
	v.Set("breathing.completion_display", cfg.Breathing.CompletionDisplay.String())
	v.Set("breathing.ending_fade", cfg.Breathing.EndingFade.String())
	v.Set("focus.default_minutes", cfg.Focus.DefaultMinutes)
	v.Set("focus.preset1_name", cfg.Focus.Preset1Name)
	v.Set("focus.preset1_duration", cfg.Focus.Preset1Duration.String())
	v.Set("focus.preset2_name", cfg.Focus.Preset2Name)
	v.Set("focus.preset2_duration", cfg.Focus.Preset2Duration.String())
	v.Set("focus.preset3_name", cfg.Focus.Preset3Name)
	v.Set("focus.preset3_duration", cfg.Focus.Preset3Duration.String())
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.file", cfg.Logging.File)

	return v.WriteConfigAs(path)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	dir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// GetDataDir returns the directory holding the config and log files.
func GetDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".prep"), nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)
	return v
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("breathing.durations", defaults.Breathing.Durations)
	v.SetDefault("breathing.sentences", defaults.Breathing.Sentences)
	v.SetDefault("breathing.closing_line", defaults.Breathing.ClosingLine)
	v.SetDefault("breathing.sentence_display", "5s")
	v.SetDefault("breathing.fade", "1s")
	v.SetDefault("breathing.completion_display", "3s")
	v.SetDefault("breathing.ending_fade", "3s")
	v.SetDefault("focus.default_minutes", 30)
	v.SetDefault("focus.preset1_name", "Quick")
	v.SetDefault("focus.preset1_duration", "15m0s")
	v.SetDefault("focus.preset2_name", "Focus")
	v.SetDefault("focus.preset2_duration", "30m0s")
	v.SetDefault("focus.preset3_name", "Deep")
	v.SetDefault("focus.preset3_duration", "1h0m0s")
	v.SetDefault("visualization.random_prompts", false)
	v.SetDefault("visualization.seed", 0)
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.sound", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "~/.prep/prep.log")

	// Theme defaults
	theme := defaults.Theme
	v.SetDefault("theme.color_accent", theme.ColorAccent)
	v.SetDefault("theme.color_breathing", theme.ColorBreathing)
	v.SetDefault("theme.color_focus", theme.ColorFocus)
	v.SetDefault("theme.color_paused", theme.ColorPaused)
	v.SetDefault("theme.color_title", theme.ColorTitle)
	v.SetDefault("theme.color_text", theme.ColorText)
	v.SetDefault("theme.color_help", theme.ColorHelp)
	v.SetDefault("theme.wizard_gradient_start", theme.WizardGradientStart)
	v.SetDefault("theme.wizard_gradient_end", theme.WizardGradientEnd)
	v.SetDefault("theme.focus_gradient_start", theme.FocusGradientStart)
	v.SetDefault("theme.focus_gradient_end", theme.FocusGradientEnd)
	v.SetDefault("theme.breathing_gradient_start", theme.BreathingGradientStart)
	v.SetDefault("theme.breathing_gradient_end", theme.BreathingGradientEnd)
	v.SetDefault("theme.icon_app", theme.IconApp)
	v.SetDefault("theme.icon_checked", theme.IconChecked)
	v.SetDefault("theme.icon_unchecked", theme.IconUnchecked)
	v.SetDefault("theme.icon_git", theme.IconGit)
	v.SetDefault("theme.icon_paused", theme.IconPaused)
}
