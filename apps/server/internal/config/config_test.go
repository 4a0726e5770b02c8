package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.ListenAddr != ":5555" || cfg.HTTPAddr != ":8080" {
		t.Fatalf("default addresses wrong: %+v", cfg)
	}
	if cfg.MinPlayers != 2 || cfg.MaxPlayers != 4 {
		t.Fatalf("default player bounds wrong: %+v", cfg)
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("MIN_PLAYERS", "3")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.MinPlayers != 3 {
		t.Fatalf("MinPlayers = %d", cfg.MinPlayers)
	}
}

func TestBadInteger(t *testing.T) {
	t.Setenv("MAX_PLAYERS", "many")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for non-numeric MAX_PLAYERS")
	}
}
