package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/neurosphere-arcade/game/arcade"
	"github.com/wricardo/neurosphere-arcade/game/core"
	"github.com/wricardo/neurosphere-arcade/game/service"
)

// Errors are shared with the service layer so transports can match them
// without importing this package.
var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
)

// DefaultConfigName is tried first when picking the default preset
const DefaultConfigName = "classic"

// Manager handles preset loading and caching
type Manager struct {
	configDir     string
	defaultConfig *arcade.Preset
	configs       map[string]*arcade.Preset
	mu            sync.RWMutex
}

// NewManager creates a new preset manager over configDir
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*arcade.Preset),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// Dir returns the presets directory
func (m *Manager) Dir() string {
	return m.configDir
}

// LoadConfig loads a preset by ID. IDs that match a game kind fall back to
// the built-in preset when no file exists.
func (m *Manager) LoadConfig(name string) (*arcade.Preset, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}

	m.mu.RLock()
	if preset, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return preset, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if preset, exists := m.configs[name]; exists {
		return preset, nil
	}

	preset, err := readPreset(filepath.Join(m.configDir, name+".json"))
	if errors.Is(err, ErrConfigNotFound) && core.Kind(name).Valid() {
		preset, err = arcade.DefaultPreset(core.Kind(name))
	}
	if err != nil {
		return nil, err
	}

	m.configs[name] = preset
	return preset, nil
}

// readPreset parses and validates one preset file
func readPreset(path string) (*arcade.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var preset arcade.Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := preset.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &preset, nil
}

// ListConfigs returns the preset files in the directory followed by the
// built-in presets they do not override
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		preset, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid presets
			continue
		}

		seen[name] = true
		configs = append(configs, configInfo(entry.Name(), name, preset))
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })

	for _, kind := range core.Kinds() {
		if seen[string(kind)] {
			continue
		}
		preset, err := m.LoadConfig(string(kind))
		if err != nil {
			continue
		}
		configs = append(configs, configInfo("", string(kind), preset))
	}

	return configs, nil
}

func configInfo(filename, id string, preset *arcade.Preset) *service.ConfigInfo {
	info, _ := arcade.Info(preset.Game)
	return &service.ConfigInfo{
		Filename:    filename,
		ConfigID:    id,
		Name:        preset.Name,
		Description: preset.Description,
		Game:        preset.Game,
		TickDriven:  info.TickDriven,
		BuiltIn:     filename == "",
	}
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *arcade.Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default preset by ID
func (m *Manager) SetDefault(name string) error {
	preset, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = preset
	return nil
}

// RefreshCache drops cached presets so files are read again
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*arcade.Preset)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig picks classic.json, else the first valid file, else the
// built-in merge preset
func (m *Manager) loadDefaultConfig() error {
	preset, err := m.LoadConfig(DefaultConfigName)
	if err != nil {
		preset = m.firstFilePreset()
	}
	if preset == nil {
		preset = m.createMinimalConfig()
	}

	m.mu.Lock()
	m.defaultConfig = preset
	m.mu.Unlock()
	return nil
}

func (m *Manager) firstFilePreset() *arcade.Preset {
	configs, err := m.ListConfigs()
	if err != nil {
		return nil
	}
	for _, info := range configs {
		if info.BuiltIn {
			continue
		}
		if preset, err := m.LoadConfig(info.ConfigID); err == nil {
			return preset
		}
	}
	return nil
}

// SaveConfig validates preset and writes it to the presets directory
func (m *Manager) SaveConfig(name string, preset *arcade.Preset) error {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidConfig, name)
	}
	if err := preset.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	configPath := filepath.Join(m.configDir, name+".json")

	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = preset
	m.mu.Unlock()

	return nil
}

// createMinimalConfig is used when the directory holds no usable preset
func (m *Manager) createMinimalConfig() *arcade.Preset {
	preset, _ := arcade.DefaultPreset(core.KindMerge)
	return preset
}

// ReloadConfig drops one cached preset and reads it again
func (m *Manager) ReloadConfig(name string) error {
	name = strings.TrimSuffix(name, ".json")
	m.mu.Lock()
	delete(m.configs, name)
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}

// ValidateConfig checks a preset without saving it
func (m *Manager) ValidateConfig(preset *arcade.Preset) error {
	if err := preset.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
