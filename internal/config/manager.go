package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Manager owns the configuration file: initial load, env merge, hot reload
// and persisted updates from the management API.
type Manager struct {
	mu         sync.RWMutex
	config     *FileConfig
	configPath string
	lastMod    time.Time
	stopCh     chan struct{}
	stopOnce   sync.Once
	onChange   []func(*FileConfig)
}

// NewManager loads configuration from path (or well-known locations when
// path is empty) and starts watching the file for changes.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		for _, loc := range []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".transmate", "config.yaml"),
			"/etc/transmate/config.yaml",
		} {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	m := &Manager{configPath: path, stopCh: make(chan struct{})}
	if err := m.load(); err != nil {
		if os.IsNotExist(err) || path == "" {
			m.config = defaultConfig()
			log.WithField("path", path).Warn("no config file found, using defaults")
		} else {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	m.mergeEnv()
	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if m.configPath != "" {
		if _, err := os.Stat(m.configPath); err == nil {
			m.startWatcher()
		}
	}
	return m, nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *FileConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return defaultConfig()
	}
	cfg := *m.config
	return &cfg
}

// OnChange registers a callback invoked with the new configuration after a
// reload or update.
func (m *Manager) OnChange(fn func(*FileConfig)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Update applies the given field updates, persists them to the config file
// (when one is in use) and notifies listeners.
func (m *Manager) Update(updates map[string]any) error {
	m.mu.Lock()
	if m.config == nil {
		m.config = defaultConfig()
	}
	for key, value := range updates {
		if err := applyUpdate(m.config, key, value); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	if err := m.config.Validate(); err != nil {
		m.mu.Unlock()
		return err
	}
	var saveErr error
	if m.configPath != "" {
		saveErr = m.saveLocked()
	}
	newCfg := *m.config
	m.mu.Unlock()
	if saveErr != nil {
		return saveErr
	}
	m.emitChange(&newCfg)
	return nil
}

// Close stops the file watcher.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Manager) load() error {
	if m.configPath == "" {
		return os.ErrNotExist
	}
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", m.configPath, err)
	}

	m.mu.Lock()
	m.config = cfg
	if info, err := os.Stat(m.configPath); err == nil {
		m.lastMod = info.ModTime()
	}
	m.mu.Unlock()
	return nil
}

func (m *Manager) saveLocked() error {
	data, err := yaml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	tmp := m.configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, m.configPath); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	if info, err := os.Stat(m.configPath); err == nil {
		m.lastMod = info.ModTime()
	}
	return nil
}

func (m *Manager) emitChange(cfg *FileConfig) {
	m.mu.RLock()
	callbacks := make([]func(*FileConfig), len(m.onChange))
	copy(callbacks, m.onChange)
	m.mu.RUnlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
}
