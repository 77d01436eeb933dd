// Package config loads server configuration from the environment, with a
// .env file picked up for local development.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/herocards/server/engine"
)

// Config is the full server configuration.
type Config struct {
	ListenAddr     string
	AllowedOrigins []string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	JWTSecret   string
	JWTTTLHours int

	Rules engine.Rules
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables win over file values.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not read .env file")
	}

	rules := engine.DefaultRules()
	rules.TargetScore = envInt("GAME_TARGET_SCORE", rules.TargetScore)
	rules.StartCredits = envInt("GAME_START_CREDITS", rules.StartCredits)
	rules.DefaultBet = envInt("GAME_DEFAULT_BET", rules.DefaultBet)
	rules.CreditCeiling = envInt("GAME_CREDIT_CEILING", rules.CreditCeiling)
	rules.MaxRounds = envInt("GAME_MAX_ROUNDS", rules.MaxRounds)
	rules.BetTimeSec = envInt("GAME_BET_TIME_SEC", rules.BetTimeSec)
	rules.ChoiceTimeSec = envInt("GAME_CHOICE_TIME_SEC", rules.ChoiceTimeSec)
	rules.AbilityTimeSec = envInt("GAME_ABILITY_TIME_SEC", rules.AbilityTimeSec)
	rules.RoundBreakSec = envInt("GAME_ROUND_BREAK_SEC", rules.RoundBreakSec)

	return &Config{
		ListenAddr:     envStr("LISTEN_ADDR", ":8080"),
		AllowedOrigins: splitCSV(envStr("ORIGIN_ALLOWLIST", "")),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		RedisAddr:      envStr("REDIS_ADDR", ""),
		RedisPassword:  envStr("REDIS_PASSWORD", ""),
		JWTSecret:      envStr("JWT_SECRET", "insecure-dev-secret"),
		JWTTTLHours:    envInt("JWT_TTL_HOURS", 24),
		Rules:          rules,
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).WithError(err).Warn("invalid integer in environment, using default")
		return def
	}
	return n
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
