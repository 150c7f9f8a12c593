// Package config loads application configuration from a YAML file with
// environment-variable overrides for credentials.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Lark     LarkConfig     `mapstructure:"lark"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Report   ReportConfig   `mapstructure:"report"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	UploadDir    string        `mapstructure:"upload_dir"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// OpenAIConfig holds OpenAI API configuration. An empty API key puts the
// vision agent and medical judge into mock mode.
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	VisionModel string        `mapstructure:"vision_model"`
	JudgeModel  string        `mapstructure:"judge_model"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LarkConfig holds Lark messaging configuration. Leaving app_id empty
// disables reviewer notifications.
type LarkConfig struct {
	AppID          string `mapstructure:"app_id"`
	AppSecret      string `mapstructure:"app_secret"`
	ReviewerChatID string `mapstructure:"reviewer_chat_id"`
}

// PolicyConfig holds policy engine configuration.
type PolicyConfig struct {
	RulesPath string `mapstructure:"rules_path"`
}

// ReportConfig holds report exporter configuration.
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// WorkerConfig holds background poller configuration.
type WorkerConfig struct {
	HistoryInterval time.Duration `mapstructure:"history_interval"`
	HealthInterval  time.Duration `mapstructure:"health_interval"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.upload_dir", "uploads")

	viper.SetDefault("database.path", "data/claimguard.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("openai.vision_model", "gpt-4o")
	viper.SetDefault("openai.judge_model", "gpt-4o-mini")
	viper.SetDefault("openai.timeout", 60*time.Second)

	viper.SetDefault("policy.rules_path", "configs/policy_rules.json")
	viper.SetDefault("report.output_dir", "reports")

	viper.SetDefault("worker.history_interval", 10*time.Second)
	viper.SetDefault("worker.health_interval", 15*time.Second)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

func bindEnvVars() {
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("lark.app_id", "LARK_APP_ID")
	viper.BindEnv("lark.app_secret", "LARK_APP_SECRET")
	viper.BindEnv("lark.reviewer_chat_id", "LARK_REVIEWER_CHAT_ID")
}

// Validate checks the configuration for values that would only fail later
// at runtime. OpenAI and Lark credentials are optional: missing credentials
// degrade to mock extraction and disabled notifications.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Policy.RulesPath == "" {
		return fmt.Errorf("policy.rules_path is required")
	}
	if c.Lark.AppID != "" && c.Lark.AppSecret == "" {
		return fmt.Errorf("lark.app_secret is required when lark.app_id is set")
	}
	return nil
}
