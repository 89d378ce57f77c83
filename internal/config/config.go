// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/jass/engine"
)

// ErrInvalid is returned by Load when a variable is present but unusable.
var ErrInvalid = errors.New("config: invalid value")

// Config holds everything the binaries read from the environment.
type Config struct {
	Seed       uint64        // JASS_SEED; 0 picks a seed from the clock.
	Iterations int           // JASS_ITERATIONS, MCTS budget per card.
	Pace       time.Duration // JASS_PACE, minimum time per card for paced players.
	Players    []string      // JASS_PLAYERS, four comma-separated player specs.
	Games      int           // JASS_GAMES, games the local harness plays.

	ListenAddr string // JASS_LISTEN_ADDR, remote player server address.
	RemoteAddr string // JASS_REMOTE_ADDR, default address for r: players.
	JWTSecret  string // JASS_JWT_SECRET; empty disables remote auth.

	RedisAddr   string // JASS_REDIS_ADDR; empty uses in-memory snapshots.
	RedisTTL    time.Duration
	DatabaseURL string // JASS_DATABASE_URL; empty disables result storage.

	LogLevel logrus.Level // JASS_LOG_LEVEL
}

// Defaults returns the configuration used when no variable is set.
func Defaults() Config {
	return Config{
		Iterations: 10_000,
		Pace:       time.Second,
		Players:    []string{"s:Aline", "n:Bastien", "s:Colette", "n:Donatien"},
		Games:      1,
		ListenAddr: ":5108",
		RemoteAddr: "localhost:5108",
		RedisTTL:   24 * time.Hour,
		LogLevel:   logrus.InfoLevel,
	}
}

// Load reads an optional .env file from the working directory (or the
// given files) and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, falling back to
// Defaults for unset variables.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Defaults()
	var err error

	if v := getenv("JASS_SEED"); v != "" {
		if c.Seed, err = strconv.ParseUint(v, 0, 64); err != nil {
			return c, fmt.Errorf("%w: JASS_SEED=%q", ErrInvalid, v)
		}
	}
	if v := getenv("JASS_ITERATIONS"); v != "" {
		if c.Iterations, err = strconv.Atoi(v); err != nil {
			return c, fmt.Errorf("%w: JASS_ITERATIONS=%q", ErrInvalid, v)
		}
	}
	if v := getenv("JASS_PACE"); v != "" {
		if c.Pace, err = time.ParseDuration(v); err != nil {
			return c, fmt.Errorf("%w: JASS_PACE=%q", ErrInvalid, v)
		}
	}
	if v := getenv("JASS_PLAYERS"); v != "" {
		c.Players = splitList(v)
	}
	if v := getenv("JASS_GAMES"); v != "" {
		if c.Games, err = strconv.Atoi(v); err != nil {
			return c, fmt.Errorf("%w: JASS_GAMES=%q", ErrInvalid, v)
		}
	}
	if v := getenv("JASS_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := getenv("JASS_REMOTE_ADDR"); v != "" {
		c.RemoteAddr = v
	}
	c.JWTSecret = getenv("JASS_JWT_SECRET")
	c.RedisAddr = getenv("JASS_REDIS_ADDR")
	if v := getenv("JASS_REDIS_TTL"); v != "" {
		if c.RedisTTL, err = time.ParseDuration(v); err != nil {
			return c, fmt.Errorf("%w: JASS_REDIS_TTL=%q", ErrInvalid, v)
		}
	}
	c.DatabaseURL = getenv("JASS_DATABASE_URL")
	if v := getenv("JASS_LOG_LEVEL"); v != "" {
		if c.LogLevel, err = logrus.ParseLevel(v); err != nil {
			return c, fmt.Errorf("%w: JASS_LOG_LEVEL=%q", ErrInvalid, v)
		}
	}
	return c, c.Validate()
}

// Validate checks the cross-field constraints.
func (c Config) Validate() error {
	switch {
	case c.Iterations < engine.TricksPerTurn:
		return fmt.Errorf("%w: JASS_ITERATIONS must be at least %d, got %d", ErrInvalid, engine.TricksPerTurn, c.Iterations)
	case c.Pace < 0:
		return fmt.Errorf("%w: JASS_PACE must not be negative", ErrInvalid)
	case len(c.Players) != engine.NumPlayers:
		return fmt.Errorf("%w: JASS_PLAYERS needs %d specs, got %d", ErrInvalid, engine.NumPlayers, len(c.Players))
	case c.Games < 1:
		return fmt.Errorf("%w: JASS_GAMES must be positive", ErrInvalid)
	}
	return nil
}

// Logger returns a logrus logger at the configured level.
func (c Config) Logger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(c.LogLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
