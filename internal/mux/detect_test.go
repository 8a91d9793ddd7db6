package mux

import "testing"

func TestFromName(t *testing.T) {
	m, err := FromName("tmux")
	if err != nil {
		t.Fatalf("FromName(tmux): %v", err)
	}
	if m.Name() != "tmux" {
		t.Errorf("name: got %q, want tmux", m.Name())
	}

	if _, err := FromName("zellij"); err == nil {
		t.Error("zellij should be reported as unimplemented")
	}
	if _, err := FromName("screen"); err == nil {
		t.Error("unknown multiplexer should be rejected")
	}
}

func TestDetectPrefersTmuxEnv(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	t.Setenv("ZELLIJ", "")

	m, err := Detect()
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if m.Name() != "tmux" {
		t.Errorf("detected: got %q, want tmux", m.Name())
	}
}
