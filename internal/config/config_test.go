package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Prefix != "wrangler" {
		t.Errorf("prefix: got %q, want wrangler", cfg.Prefix)
	}
	if cfg.Cols != 220 || cfg.Rows != 50 {
		t.Errorf("geometry: got %dx%d, want 220x50", cfg.Cols, cfg.Rows)
	}
	if cfg.AgentRoot != "./src/agents" {
		t.Errorf("agent root: got %q", cfg.AgentRoot)
	}
	if cfg.CommandTimeout != "0" {
		t.Errorf("command timeout: got %q, want 0", cfg.CommandTimeout)
	}
	if cfg.Refresh != "5s" {
		t.Errorf("refresh: got %q, want 5s", cfg.Refresh)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("config file: got %q, want empty", cfg.ConfigFile)
	}
	if cfg.CommandTimeoutDuration != 0 {
		t.Errorf("command timeout duration: got %v, want 0", cfg.CommandTimeoutDuration)
	}
	if cfg.RefreshDuration != 5*time.Second {
		t.Errorf("refresh duration: got %v, want 5s", cfg.RefreshDuration)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `prefix: crew
cols: 120
rows: 40
agent_root: /srv/agents
command_timeout: 10s
refresh: 2s
`
	if err := os.WriteFile(filepath.Join(dir, ".pane-wrangler.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigFile != ".pane-wrangler.yaml" {
		t.Errorf("config file: got %q", cfg.ConfigFile)
	}
	if cfg.Prefix != "crew" {
		t.Errorf("prefix: got %q, want crew", cfg.Prefix)
	}
	if cfg.Cols != 120 || cfg.Rows != 40 {
		t.Errorf("geometry: got %dx%d, want 120x40", cfg.Cols, cfg.Rows)
	}
	if cfg.AgentRoot != "/srv/agents" {
		t.Errorf("agent root: got %q", cfg.AgentRoot)
	}
	if cfg.CommandTimeoutDuration != 10*time.Second {
		t.Errorf("command timeout: got %v, want 10s", cfg.CommandTimeoutDuration)
	}
	if cfg.RefreshDuration != 2*time.Second {
		t.Errorf("refresh: got %v, want 2s", cfg.RefreshDuration)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "prefix: crew\ncols: 120\n"
	if err := os.WriteFile(filepath.Join(dir, ".pane-wrangler.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PANE_WRANGLER_PREFIX", "swarm")
	t.Setenv("PANE_WRANGLER_COLS", "200")
	t.Setenv("PANE_WRANGLER_COMMAND_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prefix != "swarm" {
		t.Errorf("prefix: got %q, want swarm", cfg.Prefix)
	}
	if cfg.Cols != 200 {
		t.Errorf("cols: got %d, want 200", cfg.Cols)
	}
	if cfg.CommandTimeoutDuration != 3*time.Second {
		t.Errorf("command timeout: got %v, want 3s", cfg.CommandTimeoutDuration)
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PANE_WRANGLER_REFRESH", "often")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject an unparseable refresh interval")
	}
}

func TestParseDurationOrDisable(t *testing.T) {
	tests := []struct {
		in       string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{"", 5 * time.Second, 5 * time.Second, false},
		{"0", time.Second, 0, false},
		{"off", time.Second, 0, false},
		{"disable", time.Second, 0, false},
		{"30s", 0, 30 * time.Second, false},
		{"2m", 0, 2 * time.Minute, false},
		{"bogus", 0, 0, true},
	}
	for _, tt := range tests {
		got, err := parseDurationOrDisable(tt.in, tt.fallback)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDurationOrDisable(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDurationOrDisable(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDurationOrDisable(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
