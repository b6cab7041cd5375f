package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Env                string
	Port               string
	DBURL              string
	RedisAddr          string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessExpiryMin    int
	RefreshExpiryMin   int
	LoginMaxAttempts   int
	LockoutMinutes     int
	RetentionDays      int
	MailFrom           string
}

// Load reads configuration from an optional config.yaml plus environment
// variables (env wins). The two token secrets and the database URL have no
// safe default and must be provided.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("access_token_expiry", 15)
	v.SetDefault("refresh_token_expiry", 10080)
	v.SetDefault("login_max_attempts", 5)
	v.SetDefault("lockout_minutes", 30)
	v.SetDefault("retention_days", 90)
	v.SetDefault("mail_from", "noreply@tasknest.local")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Env:                v.GetString("env"),
		Port:               v.GetString("port"),
		DBURL:              v.GetString("db_url"),
		RedisAddr:          v.GetString("redis_addr"),
		AccessTokenSecret:  v.GetString("access_token_secret"),
		RefreshTokenSecret: v.GetString("refresh_token_secret"),
		AccessExpiryMin:    v.GetInt("access_token_expiry"),
		RefreshExpiryMin:   v.GetInt("refresh_token_expiry"),
		LoginMaxAttempts:   v.GetInt("login_max_attempts"),
		LockoutMinutes:     v.GetInt("lockout_minutes"),
		RetentionDays:      v.GetInt("retention_days"),
		MailFrom:           v.GetString("mail_from"),
	}

	for key, val := range map[string]string{
		"DB_URL":               cfg.DBURL,
		"ACCESS_TOKEN_SECRET":  cfg.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET": cfg.RefreshTokenSecret,
	} {
		if val == "" {
			return nil, fmt.Errorf("missing required configuration: %s", key)
		}
	}

	return cfg, nil
}
