// Package config provides configuration loading and access for the hero field and site.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Camera    CameraConfig    `yaml:"camera"`
	Field     FieldConfig     `yaml:"field"`
	Controls  ControlsConfig  `yaml:"controls"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Remote    RemoteConfig    `yaml:"remote"`
	Contact   ContactConfig   `yaml:"contact"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// CameraConfig describes the perspective camera looking at the particle plane.
type CameraConfig struct {
	Distance float64 `yaml:"distance"` // Camera distance from the z=0 plane
	FovY     float64 `yaml:"fov_y"`    // Vertical field of view in degrees
}

// FieldConfig holds particle field simulation parameters.
type FieldConfig struct {
	Count           int     `yaml:"count"`            // Particle population, fixed per session
	RadialScale     float64 `yaml:"radial_scale"`     // Velocity gain applied to the radial profile
	TangentialScale float64 `yaml:"tangential_scale"` // Velocity gain applied to the tangential profile
	NoiseScale      float64 `yaml:"noise_scale"`      // Per-axis noise span multiplier
	HeadlessDT      float64 `yaml:"headless_dt"`      // Step duration when no window drives the clock
	Seed            int64   `yaml:"seed"`             // 0 = time based
}

// ControlsConfig holds the initial values of the user-facing controls.
type ControlsConfig struct {
	Radial     string  `yaml:"radial"`
	Tangential string  `yaml:"tangential"`
	Noise      float64 `yaml:"noise"`
	Friction   float64 `yaml:"friction"`
	Step       float64 `yaml:"step"`       // Slider increment
	ToggleKey  string  `yaml:"toggle_key"` // Key that shows/hides the panel
	PanelWidth int     `yaml:"panel_width"`
}

// RenderConfig holds sphere and lighting parameters.
type RenderConfig struct {
	SphereRadius float32    `yaml:"sphere_radius"`
	SphereRings  int        `yaml:"sphere_rings"`
	SphereSlices int        `yaml:"sphere_slices"`
	SphereColor  [3]uint8   `yaml:"sphere_color"`
	Background   [3]uint8   `yaml:"background"`
	Ambient      float32    `yaml:"ambient"`
	LightPos     [3]float32 `yaml:"light_pos"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per aggregated stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// RemoteConfig holds the optional remote control listener settings.
type RemoteConfig struct {
	Addr string `yaml:"addr"` // Empty disables the listener
}

// ContactConfig holds contact form delivery settings. Secrets are read from the environment.
type ContactConfig struct {
	Addr             string  `yaml:"addr"`
	DBPath           string  `yaml:"db_path"`
	ServiceID        string  `yaml:"service_id"`
	TemplateID       string  `yaml:"template_id"`
	PublicKey        string  `yaml:"public_key"`
	RecaptchaSiteKey string  `yaml:"recaptcha_site_key"`
	EmailJSEndpoint  string  `yaml:"emailjs_endpoint"`
	VerifyEndpoint   string  `yaml:"verify_endpoint"`
	MaxMessageLen    int     `yaml:"max_message_len"`
	TimeoutSec       float64 `yaml:"timeout_sec"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	Aspect    float64 // Screen.Width / Screen.Height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Field.Count <= 0 {
		return fmt.Errorf("field.count must be positive, got %d", c.Field.Count)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("camera.fov_y must be in (0, 180), got %v", c.Camera.FovY)
	}
	if c.Camera.Distance <= 0 {
		return fmt.Errorf("camera.distance must be positive, got %v", c.Camera.Distance)
	}
	if c.Controls.Friction < 0 || c.Controls.Friction > 1 {
		return fmt.Errorf("controls.friction must be in [0, 1], got %v", c.Controls.Friction)
	}
	if c.Controls.Noise < 0 || c.Controls.Noise > 1 {
		return fmt.Errorf("controls.noise must be in [0, 1], got %v", c.Controls.Noise)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Aspect = float64(c.Screen.Width) / float64(c.Screen.Height)

	if c.Controls.Step <= 0 {
		c.Controls.Step = 0.05
	}
	if c.Field.HeadlessDT <= 0 {
		c.Field.HeadlessDT = 1.0 / 60.0
	}
	if c.Contact.MaxMessageLen <= 0 {
		c.Contact.MaxMessageLen = 250
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
