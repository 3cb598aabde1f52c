/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/theGerk/RSI-ChessClub/glicko"
	"github.com/theGerk/RSI-ChessClub/pairing"
)

// Config is everything the binaries read from CLUB_* environment
// variables. Command line flags take precedence where both exist.
type Config struct {
	// Store is a snapshot file path (.json, .yaml or .yml) or an
	// s3://bucket/key URL.
	Store  string `env:"CLUB_STORE" envDefault:"club.json"`
	S3Gzip bool   `env:"CLUB_S3_GZIP"`

	// CacheBucket holds fetched web pages; empty means an in-memory cache.
	CacheBucket string        `env:"CLUB_CACHE_BUCKET"`
	CacheTTL    time.Duration `env:"CLUB_CACHE_TTL" envDefault:"1h"`

	LogLevel  string `env:"CLUB_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"CLUB_LOG_FORMAT" envDefault:"console"`

	// Seed fixes the pairing seed; zero draws a fresh one per run.
	Seed uint64 `env:"CLUB_SEED"`

	Glicko  GlickoConfig  `envPrefix:"CLUB_GLICKO_"`
	Pairing PairingConfig `envPrefix:"CLUB_PAIRING_"`
	Discord DiscordConfig `envPrefix:"CLUB_DISCORD_"`
}

type GlickoConfig struct {
	InitialRating     float64 `env:"INITIAL_RATING" envDefault:"1500"`
	InitialDeviation  float64 `env:"INITIAL_DEVIATION" envDefault:"350"`
	InitialVolatility float64 `env:"INITIAL_VOLATILITY" envDefault:"0.06"`
	Tau               float64 `env:"TAU" envDefault:"0.5"`
	Tolerance         float64 `env:"TOLERANCE" envDefault:"0.000001"`
	MaxIterations     int     `env:"MAX_ITERATIONS" envDefault:"1000"`
}

func (c GlickoConfig) Engine() glicko.Config {
	return glicko.Config{
		InitialRating:     c.InitialRating,
		InitialDeviation:  c.InitialDeviation,
		InitialVolatility: c.InitialVolatility,
		Tau:               c.Tau,
		Tolerance:         c.Tolerance,
		MaxIterations:     c.MaxIterations,
	}
}

type PairingConfig struct {
	K        float64 `env:"K" envDefault:"100"`
	Epsilon  float64 `env:"EPSILON" envDefault:"1"`
	MaxSteps int     `env:"MAX_STEPS" envDefault:"10000"`
}

func (c PairingConfig) Engine() pairing.Config {
	return pairing.Config{K: c.K, Epsilon: c.Epsilon, MaxSteps: c.MaxSteps}
}

type DiscordConfig struct {
	AppID     string `env:"APP_ID"`
	CommandID string `env:"COMMAND_ID"`
	PublicKey string `env:"PUBLIC_KEY"`
	Token     string `env:"TOKEN"`
	Addr      string `env:"ADDR" envDefault:":8080"`
}

// LoadConfig parses the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
