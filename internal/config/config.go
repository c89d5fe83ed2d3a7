package config

import (
	"fmt"
	"time"
)

type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	JWT         JWTConfig      `mapstructure:"jwt"`
	MFA         MFAConfig      `mapstructure:"mfa"`
	OTP         OTPConfig      `mapstructure:"otp"`
	SMTP        SMTPConfig     `mapstructure:"smtp"`
	Security    SecurityConfig `mapstructure:"security"`
	IDCodec     IDCodecConfig  `mapstructure:"id_codec"`
	Logging     LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// PublicBaseURL is the externally reachable origin used when building
	// email-confirmation links.
	PublicBaseURL string   `mapstructure:"public_base_url"`
	CORSOrigins   []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// DSN renders the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type JWTConfig struct {
	Issuer          string        `mapstructure:"issuer"`
	Audience        string        `mapstructure:"audience"`
	SigningKey      string        `mapstructure:"signing_key"`
	SessionTokenTTL time.Duration `mapstructure:"session_token_ttl"`
}

type MFAConfig struct {
	TOTPIssuerName string `mapstructure:"totp_issuer_name"`
	QRImageSize    int    `mapstructure:"qr_image_size"`
}

type OTPConfig struct {
	CodeLength          int           `mapstructure:"code_length"`
	CodeTTL             time.Duration `mapstructure:"code_ttl"`
	ConfirmationLinkTTL time.Duration `mapstructure:"confirmation_link_ttl"`
}

type SMTPConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	From               string        `mapstructure:"from"`
	MaxConnections     int           `mapstructure:"max_connections"`
	SendTimeout        time.Duration `mapstructure:"send_timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
}

type PasswordHashConfig struct {
	Memory      uint32 `mapstructure:"memory"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

type SecurityConfig struct {
	PasswordHash PasswordHashConfig `mapstructure:"password_hash"`
}

type IDCodecConfig struct {
	// KeyHex is the hex-encoded 32-byte AES key used to obfuscate internal
	// identifiers in external responses.
	KeyHex string `mapstructure:"key_hex"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}
