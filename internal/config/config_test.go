package config

import (
	"testing"
	"time"
)

func TestInitializeDefaults(t *testing.T) {
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := GetString("server"); got != "http://localhost:3000" {
		t.Errorf("server default = %q", got)
	}
	if GetBool("no-realtime") {
		t.Error("no-realtime should default to false")
	}
	if got := GetDuration("request-timeout"); got != 30*time.Second {
		t.Errorf("request-timeout default = %v", got)
	}
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("PLANK_SERVER", "https://tracker.example.com")
	t.Setenv("PLANK_NO_REALTIME", "true")
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := GetString("server"); got != "https://tracker.example.com" {
		t.Errorf("server = %q, want env value", got)
	}
	if !GetBool("no-realtime") {
		t.Error("PLANK_NO_REALTIME=true should map to no-realtime")
	}
}

func TestSetOverridesEnv(t *testing.T) {
	t.Setenv("PLANK_BOARD", "board-from-env")
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Set("board", "board-from-flag")
	if got := GetString("board"); got != "board-from-flag" {
		t.Errorf("board = %q, explicit Set should win", got)
	}
}
