package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Operator OperatorConfig
	Pool     PoolConfig
	Awards   []AwardConfig
	Metrics  MetricsConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration. An empty URI keeps the winner
// archive in memory
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// OperatorConfig holds the credentials of the draw operator
type OperatorConfig struct {
	Username     string
	PasswordHash string // bcrypt
}

// PoolConfig describes the default pool used until a pool is imported
type PoolConfig struct {
	Start       int
	End         int
	PadWidth    int
	HeaderLabel string
}

// AwardConfig describes one scheduled award
type AwardConfig struct {
	ID     string `mapstructure:"id"`
	Name   string `mapstructure:"name"`
	Quota  int    `mapstructure:"quota"`
	Rounds []int  `mapstructure:"rounds"`
}

// Award converts the configured entry into a scheduled award
func (a AwardConfig) Award() models.Award {
	rounds := make([]int, len(a.Rounds))
	copy(rounds, a.Rounds)
	return models.Award{
		ID:     a.ID,
		Name:   a.Name,
		Quota:  a.Quota,
		Rounds: rounds,
		Kind:   models.AwardKindScheduled,
	}
}

// ScheduledAwards returns the configured award table as engine awards
func (c *Config) ScheduledAwards() []models.Award {
	awards := make([]models.Award, 0, len(c.Awards))
	for _, a := range c.Awards {
		awards = append(awards, a.Award())
	}
	return awards
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// DefaultAwards returns the award table used when none is configured
func DefaultAwards() []AwardConfig {
	return []AwardConfig{
		{ID: "lucky", Name: "Lucky Prize", Quota: 43, Rounds: []int{13, 15, 15}},
		{ID: "third", Name: "Third Prize", Quota: 20, Rounds: []int{10, 10}},
		{ID: "second", Name: "Second Prize", Quota: 9, Rounds: []int{9}},
		{ID: "first", Name: "First Prize", Quota: 5, Rounds: []int{5}},
	}
}

// Load loads configuration from environment variables and config files
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read configuration
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(config.Awards) == 0 {
		config.Awards = DefaultAwards()
	}

	applyEnvOverrides(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	v.SetDefault("MongoDB.URI", "")
	v.SetDefault("MongoDB.Database", "luckydraw")
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 12*60*60) // 12 hours
	v.SetDefault("Operator.Username", "operator")
	v.SetDefault("Operator.PasswordHash", "")
	v.SetDefault("Pool.Start", 1)
	v.SetDefault("Pool.End", 180)
	v.SetDefault("Pool.PadWidth", 3)
	v.SetDefault("Pool.HeaderLabel", "number")
	v.SetDefault("Metrics.Enabled", true)
	v.SetDefault("Metrics.Namespace", "luckydraw")
	v.SetDefault("LogLevel", "info")
}

// applyEnvOverrides honours the short variable names used by hosting platforms
func applyEnvOverrides(config *Config) {
	config.Server.Port = GetEnv("PORT", config.Server.Port)
	config.Server.AllowedHosts = GetEnvAsSlice("ALLOWED_HOSTS", ",", config.Server.AllowedHosts)
	config.MongoDB.URI = GetEnv("MONGODB_URI", config.MongoDB.URI)
	config.MongoDB.Database = GetEnv("MONGODB_DATABASE", config.MongoDB.Database)
	config.JWT.Secret = GetEnv("JWT_SECRET", config.JWT.Secret)
	config.JWT.ExpiresIn = GetEnvAsInt("JWT_EXPIRES_IN", config.JWT.ExpiresIn)
	config.Metrics.Enabled = GetEnvAsBool("METRICS_ENABLED", config.Metrics.Enabled)
	config.LogLevel = GetEnv("LOG_LEVEL", config.LogLevel)
}

// Validate checks the values the draw engine cannot recover from
func (c *Config) Validate() error {
	if c.Pool.End < c.Pool.Start {
		return fmt.Errorf("pool end %d is before start %d", c.Pool.End, c.Pool.Start)
	}
	if c.Pool.PadWidth < 0 {
		return fmt.Errorf("pool pad width must not be negative, got %d", c.Pool.PadWidth)
	}
	if c.JWT.ExpiresIn <= 0 {
		return fmt.Errorf("jwt expiry must be positive, got %d", c.JWT.ExpiresIn)
	}
	seen := make(map[string]bool, len(c.Awards))
	for _, a := range c.Awards {
		if a.ID == "" {
			return errors.New("award id is required")
		}
		if seen[a.ID] {
			return fmt.Errorf("award %s configured twice", a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}
