package config

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestManagerLoadsFileOverDefaults(t *testing.T) {
	path := writeConfig(t, "port: 9090\nchunk_budget: 3500\ndefault_model: gemini-1.5-pro\n")
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer m.Close()

	cfg := m.Get()
	if cfg.Port != 9090 || cfg.ChunkBudget != 3500 || cfg.DefaultModel != "gemini-1.5-pro" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	// Untouched fields keep defaults.
	if cfg.GeminiEndpoint != "https://generativelanguage.googleapis.com" {
		t.Fatalf("default endpoint lost: %q", cfg.GeminiEndpoint)
	}
}

func TestManagerMissingFileUsesDefaults(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer m.Close()
	if cfg := m.Get(); cfg.ChunkBudget != 8000 || cfg.Port != 8080 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestManagerEnvOverride(t *testing.T) {
	t.Setenv("TRANSMATE_CHUNK_BUDGET", "1234")
	t.Setenv("GEMINI_API_KEY", "env-key")
	path := writeConfig(t, "chunk_budget: 3500\n")
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer m.Close()
	cfg := m.Get()
	if cfg.ChunkBudget != 1234 {
		t.Fatalf("env override lost: %d", cfg.ChunkBudget)
	}
	if cfg.GeminiAPIKey != "env-key" {
		t.Fatalf("bare GEMINI_API_KEY not honoured: %q", cfg.GeminiAPIKey)
	}
}

func TestManagerRejectsInvalidBudget(t *testing.T) {
	path := writeConfig(t, "chunk_budget: -5\n")
	if _, err := NewManager(path); err == nil {
		t.Fatal("expected error for non-positive chunk_budget")
	}
}

func TestManagerUpdatePersistsAndNotifies(t *testing.T) {
	path := writeConfig(t, "chunk_budget: 8000\n")
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer m.Close()

	var notified *FileConfig
	m.OnChange(func(c *FileConfig) { notified = c })

	if err := m.Update(map[string]any{"chunk_budget": float64(3500), "debug": true}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if cfg := m.Get(); cfg.ChunkBudget != 3500 || !cfg.Debug {
		t.Fatalf("update not applied: %+v", cfg)
	}
	if notified == nil || notified.ChunkBudget != 3500 {
		t.Fatalf("listener not notified: %+v", notified)
	}

	// Reopen from disk to confirm persistence.
	m2, err := NewManager(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer m2.Close()
	if cfg := m2.Get(); cfg.ChunkBudget != 3500 {
		t.Fatalf("update not persisted: %+v", cfg)
	}
}

func TestManagerUpdateUnknownField(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer m.Close()
	if err := m.Update(map[string]any{"port": 1}); err == nil {
		t.Fatal("port must not be runtime-updatable")
	}
}

func TestModelAllowed(t *testing.T) {
	cfg := &FileConfig{Models: []string{"a", "b"}}
	if !cfg.ModelAllowed("a") || cfg.ModelAllowed("c") {
		t.Fatal("model list not enforced")
	}
	open := &FileConfig{}
	if !open.ModelAllowed("anything") {
		t.Fatal("empty list should permit any model")
	}
}

func TestRedacted(t *testing.T) {
	cfg := &FileConfig{GeminiAPIKey: "secret", ManagementKey: "k", ManagementKeyHash: "h"}
	r := cfg.Redacted()
	if r.GeminiAPIKey != "***" || r.ManagementKey != "" || r.ManagementKeyHash != "" {
		t.Fatalf("secrets leaked: %+v", r)
	}
	if cfg.GeminiAPIKey != "secret" {
		t.Fatal("redaction must not mutate the original")
	}
}

func TestCheckManagementKeyPlain(t *testing.T) {
	cfg := &FileConfig{ManagementKey: "secret"}
	if !CheckManagementKey(cfg, "secret") {
		t.Fatal("expected plain key to validate")
	}
	if CheckManagementKey(cfg, "other") {
		t.Fatal("unexpected match for wrong key")
	}
	if CheckManagementKey(&FileConfig{}, "anything") {
		t.Fatal("management must be closed when no key is configured")
	}
}

func TestCheckManagementKeyHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := &FileConfig{ManagementKeyHash: string(hash)}
	if !CheckManagementKey(cfg, "secret") {
		t.Fatal("expected hashed key to validate")
	}
	if CheckManagementKey(cfg, "other") {
		t.Fatal("unexpected hash match for wrong key")
	}
}
