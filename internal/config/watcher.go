package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

func (m *Manager) startWatcher() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("failed to create file watcher, falling back to polling")
		m.startPollingWatcher()
		return
	}

	if err := watcher.Add(m.configPath); err != nil {
		log.WithError(err).WithField("path", m.configPath).Warn("failed to watch config file, falling back to polling")
		watcher.Close()
		m.startPollingWatcher()
		return
	}
	// Watch the directory too so atomic writes (rename) are caught.
	if err := watcher.Add(filepath.Dir(m.configPath)); err != nil {
		log.WithError(err).Warn("failed to watch config directory")
	}

	log.WithField("path", m.configPath).Info("config watcher started using fsnotify")

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		const debounceFor = 100 * time.Millisecond

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name == m.configPath && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if debounce != nil {
						debounce.Stop()
					}
					debounce = time.AfterFunc(debounceFor, m.checkAndReload)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("config watcher error")
			case <-m.stopCh:
				if debounce != nil {
					debounce.Stop()
				}
				return
			}
		}
	}()
}

func (m *Manager) startPollingWatcher() {
	ticker := time.NewTicker(5 * time.Second)
	log.WithField("interval", "5s").Info("config watcher started using polling")
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.checkAndReload()
			case <-m.stopCh:
				return
			}
		}
	}()
}

func (m *Manager) checkAndReload() {
	if m.configPath == "" {
		return
	}
	info, err := os.Stat(m.configPath)
	if err != nil {
		return
	}
	m.mu.RLock()
	stale := info.ModTime().After(m.lastMod)
	m.mu.RUnlock()
	if !stale {
		return
	}

	old := m.Get()
	if err := m.load(); err != nil {
		log.WithError(err).WithField("path", m.configPath).Warn("failed to reload config")
		return
	}
	m.mergeEnv()

	newCfg := m.Get()
	if err := newCfg.Validate(); err != nil {
		log.WithError(err).Warn("reloaded config is invalid, keeping previous values in effect where possible")
	}
	logConfigChanges(old, newCfg)
	m.emitChange(newCfg)
}

func logConfigChanges(old, new *FileConfig) {
	if old.Port != new.Port {
		log.WithFields(log.Fields{"field": "port", "old": old.Port, "new": new.Port}).Info("config changed")
	}
	if old.Debug != new.Debug {
		log.WithFields(log.Fields{"field": "debug", "old": old.Debug, "new": new.Debug}).Info("config changed")
	}
	if old.ChunkBudget != new.ChunkBudget {
		log.WithFields(log.Fields{"field": "chunk_budget", "old": old.ChunkBudget, "new": new.ChunkBudget}).Info("config changed")
	}
	if old.DefaultModel != new.DefaultModel {
		log.WithFields(log.Fields{"field": "default_model", "old": old.DefaultModel, "new": new.DefaultModel}).Info("config changed")
	}
}
