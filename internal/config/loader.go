package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from an APP_ENV-selected YAML file and the
// ACCOUNT_-prefixed environment.
func Load() (*Config, error) {
	setDefaults()

	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(fmt.Sprintf("config.%s", env))
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/account-service")
	}

	viper.SetEnvPrefix("ACCOUNT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing file is fine; the environment can carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Environment == "" {
		cfg.Environment = env
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "15s")
	viper.SetDefault("server.public_base_url", "http://localhost:8080")

	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.auto_migrate", false)

	viper.SetDefault("jwt.issuer", "clinova-account-service")
	viper.SetDefault("jwt.audience", "clinova-clients")
	viper.SetDefault("jwt.session_token_ttl", "30m")

	viper.SetDefault("mfa.totp_issuer_name", "Clinova")
	viper.SetDefault("mfa.qr_image_size", 200)

	viper.SetDefault("otp.code_length", 6)
	viper.SetDefault("otp.code_ttl", "5m")
	viper.SetDefault("otp.confirmation_link_ttl", "24h")

	viper.SetDefault("smtp.max_connections", 2)
	viper.SetDefault("smtp.send_timeout", "10s")

	viper.SetDefault("security.password_hash.memory", 65536)
	viper.SetDefault("security.password_hash.iterations", 3)
	viper.SetDefault("security.password_hash.parallelism", 2)
	viper.SetDefault("security.password_hash.salt_length", 16)
	viper.SetDefault("security.password_hash.key_length", 32)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.max_size_mb", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age_days", 28)
}
