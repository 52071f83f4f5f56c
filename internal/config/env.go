package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables override file values so deployments can keep
// secrets out of the config file. GEMINI_API_KEY is also honoured bare
// because that is what the hosted API documents.
func (m *Manager) mergeEnv() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.config == nil {
		m.config = defaultConfig()
	}
	c := m.config

	setString(&c.GeminiAPIKey, "TRANSMATE_GEMINI_API_KEY", "GEMINI_API_KEY")
	setString(&c.GeminiEndpoint, "TRANSMATE_GEMINI_ENDPOINT")
	setString(&c.DefaultModel, "TRANSMATE_DEFAULT_MODEL")
	setString(&c.LogFile, "TRANSMATE_LOG_FILE")
	setString(&c.ProxyURL, "TRANSMATE_PROXY_URL")
	setString(&c.ManagementKey, "TRANSMATE_MANAGEMENT_KEY")
	setString(&c.ManagementKeyHash, "TRANSMATE_MANAGEMENT_KEY_HASH")
	setInt(&c.Port, "TRANSMATE_PORT")
	setInt(&c.ChunkBudget, "TRANSMATE_CHUNK_BUDGET")
	setInt(&c.MaxUploadMB, "TRANSMATE_MAX_UPLOAD_MB")
	setBool(&c.Debug, "TRANSMATE_DEBUG")
}

func setString(dst *string, names ...string) {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
			return
		}
	}
}

func setInt(dst *int, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
