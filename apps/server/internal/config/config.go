// Package config reads the server's environment. Everything has a
// default; an empty environment yields a playable local server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// ListenAddr is the raw TCP game listener.
	ListenAddr string

	// HTTPAddr serves /ws, /health and /rounds.
	HTTPAddr string

	// Player count bounds passed to the game.
	MinPlayers int
	MaxPlayers int
}

func FromEnv() (Config, error) {
	cfg := Config{
		ListenAddr: ":5555",
		HTTPAddr:   ":8080",
		MinPlayers: 2,
		MaxPlayers: 4,
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}

	var err error
	if cfg.MinPlayers, err = intFromEnv("MIN_PLAYERS", cfg.MinPlayers); err != nil {
		return Config{}, err
	}
	if cfg.MaxPlayers, err = intFromEnv("MAX_PLAYERS", cfg.MaxPlayers); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func intFromEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
