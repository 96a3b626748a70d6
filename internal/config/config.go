// /internal/config/config.go
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
}

type Config struct {
	DiscordToken          string   `env:"DISCORD_TOKEN,required,notEmpty"`
	DiscordGuildBlacklist []string `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
	CommandPrefix         string   `env:"COMMAND_PREFIX" envDefault:"s!"`

	OpenRouterAPIKey          string        `env:"OPENROUTER_API_KEY,required,notEmpty"`
	OpenRouterAPIKeyExpensive string        `env:"OPENROUTER_API_KEY_EXPENSIVE,required,notEmpty"`
	OpenRouterBaseURL         string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	AIModel                   string        `env:"AI_MODEL" envDefault:"nousresearch/hermes-3-llama-3.1-70b"`
	AIModelExpensive          string        `env:"AI_MODEL_EXPENSIVE" envDefault:"nousresearch/hermes-3-llama-3.1-405b"`
	AITemperature             float64       `env:"AI_TEMPERATURE" envDefault:"0.1777"`
	AITimeout                 time.Duration `env:"AI_TIMEOUT" envDefault:"30s"`
	AIRateLimit               float64       `env:"AI_RATE_LIMIT" envDefault:"2"`
	EscalationKeyword         string        `env:"ESCALATION_KEYWORD" envDefault:"deepthink"`
	PersonasPath              string        `env:"PERSONAS_PATH"`

	StoreConfig

	LogPath  string `env:"LOG_PATH" envDefault:"logs/sydneybot.log"`
	LogDebug bool   `env:"LOG_DEBUG" envDefault:"false"`

	PresenceSchedule string `env:"PRESENCE_SCHEDULE" envDefault:"@every 5m"`
	StatusAddr       string `env:"STATUS_ADDR"`
}

// StoreConfig is the part of the configuration every tool that opens the
// database must agree on.
type StoreConfig struct {
	StoragePath string `env:"STORAGE_PATH" envDefault:"data/sydneybot.db"`
	BackupCount int    `env:"BACKUP_COUNT" envDefault:"5"`

	DefaultReplyProbability    float64 `env:"DEFAULT_REPLY_PROBABILITY" envDefault:"0.05"`
	DefaultReactionProbability float64 `env:"DEFAULT_REACTION_PROBABILITY" envDefault:"0.10"`
}

// LoadStore parses only the storage settings, for tools that do not need
// the Discord or completion credentials.
func LoadStore() (StoreConfig, error) {
	sc, err := env.ParseAs[StoreConfig]()
	if err != nil {
		return sc, fmt.Errorf("parse environment: %w", err)
	}
	if err := sc.validate(); err != nil {
		return sc, err
	}
	return sc, nil
}

func (s StoreConfig) validate() error {
	for name, p := range map[string]float64{
		"DEFAULT_REPLY_PROBABILITY":    s.DefaultReplyProbability,
		"DEFAULT_REACTION_PROBABILITY": s.DefaultReactionProbability,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, p)
		}
	}
	if s.BackupCount < 0 {
		return fmt.Errorf("BACKUP_COUNT must not be negative")
	}
	return nil
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// New loads the configuration and exits the process when it is unusable.
func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("[ERR] Invalid configuration: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.CommandPrefix == "" {
		return fmt.Errorf("COMMAND_PREFIX must not be empty")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive, got %s", c.AITimeout)
	}
	if c.AIRateLimit <= 0 {
		return fmt.Errorf("AI_RATE_LIMIT must be positive, got %v", c.AIRateLimit)
	}
	return c.StoreConfig.validate()
}
