// internal/common/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Cashback CashbackConfig `mapstructure:"cashback"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Auth Configuration ---

type AuthConfig struct {
	TokenSecret string `mapstructure:"token_secret"`
	TokenExpiry int    `mapstructure:"token_expiry"` // seconds
	BcryptCost  int    `mapstructure:"bcrypt_cost"`
}

func (a AuthConfig) TokenExpiryDuration() time.Duration {
	return time.Duration(a.TokenExpiry) * time.Second
}

// --- Cashback Configuration ---

// CashbackConfig holds the purchase review and cashback rule settings.
type CashbackConfig struct {
	// AutoApproveCPF is a comma-separated list of normalized identifiers whose
	// purchases are approved at creation.
	AutoApproveCPF string       `mapstructure:"auto_approve_cpf"`
	Tiers          []TierConfig `mapstructure:"tiers"`
	CreditAPI      CreditAPIConfig `mapstructure:"credit_api"`
}

// AllowList splits AutoApproveCPF into individual identifiers, dropping
// empty entries.
func (c CashbackConfig) AllowList() []string {
	parts := strings.Split(c.AutoApproveCPF, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TierConfig describes one cashback tier. Max is nil for the open-ended
// top tier.
type TierConfig struct {
	Min        float64  `mapstructure:"min"`
	Max        *float64 `mapstructure:"max"`
	Percentage float64  `mapstructure:"percentage"`
}

type CreditAPIConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Header   string `mapstructure:"header"`
	Token    string `mapstructure:"token"`
	Timeout  int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
