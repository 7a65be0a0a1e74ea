package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

const (
	defaultReferrerBonus = 500
	defaultRefereeBonus  = 250
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	JWTSecret     string `env:"JWT_SECRET"`

	GatewayBaseURL string `env:"GATEWAY_BASE_URL"`
	GatewayKeyID   string `env:"GATEWAY_KEY_ID"`
	GatewaySecret  string `env:"GATEWAY_SECRET"`

	ReferrerBonus int64 `env:"REFERRER_BONUS"`
	RefereeBonus  int64 `env:"REFEREE_BONUS"`

	LogLevel string `env:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTSecret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func (c *Config) ReferrerBonusAmount() decimal.Decimal {
	return decimal.NewFromInt(c.ReferrerBonus)
}

func (c *Config) RefereeBonusAmount() decimal.Decimal {
	return decimal.NewFromInt(c.RefereeBonus)
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.JWTSecret, "j", "", "JWT signing secret")
	flag.StringVar(&flagConfig.GatewayBaseURL, "g", "", "Payment gateway base URL")
	flag.StringVar(&flagConfig.GatewayKeyID, "k", "", "Payment gateway key id")
	flag.StringVar(&flagConfig.GatewaySecret, "s", "", "Payment gateway signing secret")
	flag.Int64Var(&flagConfig.ReferrerBonus, "rb", defaultReferrerBonus, "Referral bonus for the referrer")
	flag.Int64Var(&flagConfig.RefereeBonus, "nb", defaultRefereeBonus, "Referral bonus for the new user")
	flag.StringVar(&flagConfig.LogLevel, "l", "info", "Log level (debug, info, warn, error)")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:     defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:    defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:  defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTSecret:      defaultIfBlank(envConfig.JWTSecret, flagsConfig.JWTSecret),
		GatewayBaseURL: defaultIfBlank(envConfig.GatewayBaseURL, flagsConfig.GatewayBaseURL),
		GatewayKeyID:   defaultIfBlank(envConfig.GatewayKeyID, flagsConfig.GatewayKeyID),
		GatewaySecret:  defaultIfBlank(envConfig.GatewaySecret, flagsConfig.GatewaySecret),
		ReferrerBonus:  defaultIfZero(envConfig.ReferrerBonus, flagsConfig.ReferrerBonus),
		RefereeBonus:   defaultIfZero(envConfig.RefereeBonus, flagsConfig.RefereeBonus),
		LogLevel:       defaultIfBlank(envConfig.LogLevel, flagsConfig.LogLevel),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func defaultIfZero(value int64, defaultValue int64) int64 {
	if value == 0 {
		return defaultValue
	}
	return value
}
