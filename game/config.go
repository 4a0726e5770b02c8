package game

import "fmt"

type Config struct {
	// Player count bounds for starting a round.
	MinPlayers int
	MaxPlayers int

	// RNG seed (0 => time-based)
	Seed int64
}

func (c Config) validate() error {
	if c.MinPlayers < 2 {
		return fmt.Errorf("MinPlayers must be >= 2")
	}
	if c.MaxPlayers < c.MinPlayers {
		return fmt.Errorf("MaxPlayers must be >= MinPlayers")
	}
	return nil
}
