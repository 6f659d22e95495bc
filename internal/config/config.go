package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

type Config struct {
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Key     string `toml:"key"`
}

// UIConfig holds the interface timings. Durations are in milliseconds.
type UIConfig struct {
	Haptics             bool `toml:"haptics"`
	ToastMillis         int  `toml:"toast_ms"`
	EmptyStateDelayMs   int  `toml:"empty_state_delay_ms"`
	ShakeMillis         int  `toml:"shake_ms"`
	SlideOutFrames      int  `toml:"slide_out_frames"`
	SlideOutFrameMillis int  `toml:"slide_out_frame_ms"`
	HapticPulseMillis   int  `toml:"haptic_pulse_ms"`
}

type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(configDir(), "todos.db"),
			Key:     "todos",
		},
		UI: UIConfig{
			Haptics:             false,
			ToastMillis:         3000,
			EmptyStateDelayMs:   100,
			ShakeMillis:         400,
			SlideOutFrames:      5,
			SlideOutFrameMillis: 60,
			HapticPulseMillis:   10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath is where Load looks for a config file.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "todolist")
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	return cfg, nil
}

func (c *Config) ApplyEnv() {
	if v, ok := getEnvString("TODOLIST_STORE"); ok {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TODOLIST_PATH"); ok {
		c.Storage.Path = expandPath(v)
	}
	if v, ok := getEnvString("TODOLIST_KEY"); ok {
		c.Storage.Key = v
	}
	if v, ok := getEnvBool("TODOLIST_HAPTICS"); ok {
		c.UI.Haptics = v
	}
	if v, ok := getEnvInt("TODOLIST_TOAST_MS"); ok && v > 0 {
		c.UI.ToastMillis = v
	}
	if v, ok := getEnvInt("TODOLIST_EMPTY_DELAY_MS"); ok && v >= 0 {
		c.UI.EmptyStateDelayMs = v
	}
	if v, ok := getEnvString("TODOLIST_LOG_FILE"); ok {
		c.Log.File = expandPath(v)
	}
	if v, ok := getEnvString("TODOLIST_LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("config: storage path is required for backend %q", c.Storage.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("config: storage key is required")
	}
	if c.UI.SlideOutFrames < 1 {
		return fmt.Errorf("config: slide_out_frames must be at least 1")
	}
	return nil
}

func (u UIConfig) ToastDuration() time.Duration {
	return time.Duration(u.ToastMillis) * time.Millisecond
}

func (u UIConfig) EmptyStateDelay() time.Duration {
	return time.Duration(u.EmptyStateDelayMs) * time.Millisecond
}

func (u UIConfig) ShakeDuration() time.Duration {
	return time.Duration(u.ShakeMillis) * time.Millisecond
}

func (u UIConfig) SlideOutFrameInterval() time.Duration {
	return time.Duration(u.SlideOutFrameMillis) * time.Millisecond
}

func (u UIConfig) HapticPulse() time.Duration {
	return time.Duration(u.HapticPulseMillis) * time.Millisecond
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
