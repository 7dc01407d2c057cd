// Package settings loads server settings from an optional arcade.yaml and
// ARCADE_* environment variables.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Settings configures the serve command
type Settings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	PresetsDir      string        `mapstructure:"presets_dir"`
	ScoresBackend   string        `mapstructure:"scores_backend"` // file or sqlite
	ScoresPath      string        `mapstructure:"scores_path"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Debug           bool          `mapstructure:"debug"`
	Ngrok           bool          `mapstructure:"ngrok"`
	NgrokDomain     string        `mapstructure:"ngrok_domain"`
}

// Addr returns host:port
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 8080)
	v.SetDefault("presets_dir", "configs")
	v.SetDefault("scores_backend", "file")
	v.SetDefault("scores_path", "")
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("cleanup_interval", time.Hour)
	v.SetDefault("debug", false)
	v.SetDefault("ngrok", false)
	v.SetDefault("ngrok_domain", "")
}

// Load reads settings. An explicit file must exist; without one, arcade.yaml
// is looked up in the working directory and $HOME/.neurosphere and may be
// absent.
func Load(file string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ARCADE")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("arcade")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".neurosphere"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if s.ScoresPath == "" {
		s.ScoresPath = DefaultScoresPath(s.ScoresBackend)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultScoresPath is the score store location used when none is configured
func DefaultScoresPath(backend string) string {
	if backend == "sqlite" {
		return "scores.db"
	}
	return "scores.json"
}

// Validate rejects settings the server cannot run with
func (s *Settings) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}
	if s.ScoresBackend != "file" && s.ScoresBackend != "sqlite" {
		return fmt.Errorf("invalid scores backend %q", s.ScoresBackend)
	}
	if s.SessionTTL <= 0 || s.CleanupInterval <= 0 {
		return errors.New("session_ttl and cleanup_interval must be positive")
	}
	return nil
}
