package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmcdole/qscan/internal/domain"
	"github.com/spf13/viper"
)

// CameraBackend identifies how cameras are enumerated and captured
type CameraBackend string

const (
	CameraBackendFrames CameraBackend = "frames"
	CameraBackendV4L    CameraBackend = "v4l"
)

// Config holds all application configuration
type Config struct {
	Scanner     ScannerConfig     `mapstructure:"scanner"`
	Generator   GeneratorConfig   `mapstructure:"generator"`
	Camera      CameraConfig      `mapstructure:"camera"`
	Browser     BrowserConfig     `mapstructure:"browser"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ScannerConfig holds live scan settings
type ScannerConfig struct {
	FPS            int      `mapstructure:"fps"`             // Frames decoded per second
	QRBox          int      `mapstructure:"qrbox"`           // Centre crop size in pixels, 0 = full frame
	Formats        []string `mapstructure:"formats"`         // e.g. ["qr_code", "ean_13"], empty = all
	TryHarder      bool     `mapstructure:"try_harder"`
	PreferredLabel string   `mapstructure:"preferred_label"` // Fuzzy match against camera labels
	Fallback       string   `mapstructure:"fallback"`        // "first" or "last"
	AutoStart      bool     `mapstructure:"auto_start"`      // Start the camera when the scan page opens
}

// GeneratorConfig holds the fixed rendering configuration
type GeneratorConfig struct {
	Engine     string `mapstructure:"engine"`    // "go-qrcode" or "zxing"
	Symbology  string `mapstructure:"symbology"` // "qr", "code128", "ean13", ...
	Width      int    `mapstructure:"width"`
	Margin     int    `mapstructure:"margin"`
	Foreground string `mapstructure:"foreground"`
	Background string `mapstructure:"background"`
	Recovery   string `mapstructure:"recovery"` // "L", "M", "Q" or "H"
	Filename   string `mapstructure:"filename"`
	OutputDir  string `mapstructure:"output_dir"`
}

// CameraConfig holds capture backend settings
type CameraConfig struct {
	Backend   CameraBackend `mapstructure:"backend"`
	FramesDir string        `mapstructure:"frames_dir"` // frames backend: one sub-directory per device
	MaxProbe  int           `mapstructure:"max_probe"`  // v4l backend: highest /dev/videoN probed
}

// BrowserConfig holds the command used to open links
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // empty for the system default
	Args    []string `mapstructure:"args"`
}

// PreferencesConfig holds user preferences
type PreferencesConfig struct {
	RememberLastCamera bool `mapstructure:"remember_last_camera"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Scanner: ScannerConfig{
			FPS:       15,
			QRBox:     260,
			TryHarder: true,
			Fallback:  domain.FallbackFirst,
			AutoStart: true,
		},
		Generator: GeneratorConfig{
			Engine:     "go-qrcode",
			Symbology:  "qr",
			Width:      260,
			Margin:     4,
			Foreground: "#000000",
			Background: "#ffffff",
			Recovery:   "M",
			Filename:   "qscan-qr.png",
			OutputDir:  defaultDownloadPath(),
		},
		Camera: CameraConfig{
			Backend:   CameraBackendFrames,
			FramesDir: filepath.Join(defaultDataPath(), "cameras"),
			MaxProbe:  9,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "qscan.log"),
			Level: "INFO",
		},
	}
}

// ScanConfig projects the scanner section onto the controller's config
func (c *Config) ScanConfig() domain.ScanConfig {
	return domain.ScanConfig{
		FPS:            c.Scanner.FPS,
		QRBox:          c.Scanner.QRBox,
		Formats:        c.Scanner.Formats,
		TryHarder:      c.Scanner.TryHarder,
		PreferredLabel: c.Scanner.PreferredLabel,
		Fallback:       c.Scanner.Fallback,
	}
}

// RenderConfig projects the generator section onto the encoder's config
func (c *Config) RenderConfig() domain.RenderConfig {
	return domain.RenderConfig{
		Width:      c.Generator.Width,
		Margin:     c.Generator.Margin,
		Foreground: c.Generator.Foreground,
		Background: c.Generator.Background,
		Recovery:   c.Generator.Recovery,
		Symbology:  c.Generator.Symbology,
	}
}

// Validate rejects settings the controllers cannot work with
func (c *Config) Validate() error {
	if c.Scanner.FPS <= 0 {
		return fmt.Errorf("scanner.fps must be positive, got %d", c.Scanner.FPS)
	}
	if c.Scanner.QRBox < 0 {
		return fmt.Errorf("scanner.qrbox must not be negative, got %d", c.Scanner.QRBox)
	}
	switch c.Scanner.Fallback {
	case domain.FallbackFirst, domain.FallbackLast:
	default:
		return fmt.Errorf("scanner.fallback must be %q or %q, got %q",
			domain.FallbackFirst, domain.FallbackLast, c.Scanner.Fallback)
	}
	if c.Generator.Width <= 0 {
		return fmt.Errorf("generator.width must be positive, got %d", c.Generator.Width)
	}
	if c.Generator.Margin < 0 {
		return fmt.Errorf("generator.margin must not be negative, got %d", c.Generator.Margin)
	}
	switch c.Camera.Backend {
	case CameraBackendFrames, CameraBackendV4L:
	default:
		return fmt.Errorf("unknown camera.backend %q", c.Camera.Backend)
	}
	return nil
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "qscan")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "qscan")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "qscan")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "qscan")
	}
}

// defaultDownloadPath mirrors where a browser would save a download
func defaultDownloadPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, "Downloads")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return "."
}

// StorePath returns the path of the preferences database
func StorePath() string {
	return filepath.Join(defaultDataPath(), "prefs.db")
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return load(viper.New(), defaultConfigPath(), ".")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides, e.g. QSCAN_SCANNER_FPS
	v.SetEnvPrefix("QSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override it
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("scanner.fps", cfg.Scanner.FPS)
	v.SetDefault("scanner.qrbox", cfg.Scanner.QRBox)
	v.SetDefault("scanner.formats", cfg.Scanner.Formats)
	v.SetDefault("scanner.try_harder", cfg.Scanner.TryHarder)
	v.SetDefault("scanner.preferred_label", cfg.Scanner.PreferredLabel)
	v.SetDefault("scanner.fallback", cfg.Scanner.Fallback)
	v.SetDefault("scanner.auto_start", cfg.Scanner.AutoStart)

	v.SetDefault("generator.engine", cfg.Generator.Engine)
	v.SetDefault("generator.symbology", cfg.Generator.Symbology)
	v.SetDefault("generator.width", cfg.Generator.Width)
	v.SetDefault("generator.margin", cfg.Generator.Margin)
	v.SetDefault("generator.foreground", cfg.Generator.Foreground)
	v.SetDefault("generator.background", cfg.Generator.Background)
	v.SetDefault("generator.recovery", cfg.Generator.Recovery)
	v.SetDefault("generator.filename", cfg.Generator.Filename)
	v.SetDefault("generator.output_dir", cfg.Generator.OutputDir)

	v.SetDefault("camera.backend", string(cfg.Camera.Backend))
	v.SetDefault("camera.frames_dir", cfg.Camera.FramesDir)
	v.SetDefault("camera.max_probe", cfg.Camera.MaxProbe)

	v.SetDefault("browser.command", cfg.Browser.Command)
	v.SetDefault("browser.args", cfg.Browser.Args)

	v.SetDefault("preferences.remember_last_camera", cfg.Preferences.RememberLastCamera)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// SaveConfig writes the current configuration to the default location
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return save(viper.New(), cfg, filepath.Join(configPath, "config.yaml"))
}

func save(v *viper.Viper, cfg *Config, configFile string) error {
	bindDefaults(v, cfg)
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
