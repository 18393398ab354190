package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"tute/internal/engine"
)

type Config struct {
	Addr     string
	NATSURL  string
	LogLevel string
	// SettleDelay is the pause between the last card of a trick and its
	// collection.
	SettleDelay time.Duration
	// RoomFull is the seat count at which a table stops accepting joins
	// and drops out of the open table listing.
	RoomFull int
	Rules    engine.Rules
}

func Default() Config {
	return Config{
		Addr:        ":8080",
		LogLevel:    "info",
		SettleDelay: 1500 * time.Millisecond,
		RoomFull:    5,
		Rules:       engine.DefaultRules(),
	}
}

// Load reads an optional .env file at path and then the process
// environment over the defaults.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	c := Default()
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	c.NATSURL = os.Getenv("NATS_URL")
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SETTLE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SETTLE_DELAY: %w", err)
		}
		c.SettleDelay = d
	}
	var err error
	if c.RoomFull, err = intEnv("ROOM_FULL", c.RoomFull); err != nil {
		return Config{}, err
	}
	if c.Rules.MinPlayers, err = intEnv("MIN_PLAYERS", c.Rules.MinPlayers); err != nil {
		return Config{}, err
	}
	if c.Rules.LossThreshold, err = intEnv("LOSS_THRESHOLD", c.Rules.LossThreshold); err != nil {
		return Config{}, err
	}
	c.Rules.NoTensPlayer = os.Getenv("NO_TENS_PLAYER")
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Rules.MinPlayers < 3:
		return fmt.Errorf("MIN_PLAYERS must be at least 3, got %d", c.Rules.MinPlayers)
	case c.RoomFull < c.Rules.MinPlayers || c.RoomFull > c.Rules.MaxPlayers:
		return fmt.Errorf("ROOM_FULL must be between %d and %d, got %d", c.Rules.MinPlayers, c.Rules.MaxPlayers, c.RoomFull)
	case c.Rules.LossThreshold < 1:
		return fmt.Errorf("LOSS_THRESHOLD must be positive, got %d", c.Rules.LossThreshold)
	case c.SettleDelay < 0:
		return fmt.Errorf("SETTLE_DELAY must not be negative")
	}
	return nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
