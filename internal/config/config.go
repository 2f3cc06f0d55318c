// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package config

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	JWT      JWTConfig
	Admin    AdminConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

// RedisConfig configures the verification cache backend. An empty Addr
// selects the in-memory cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AdminConfig seeds an initial administrator account on startup. Ignored
// when Email is empty or an administrator already exists.
type AdminConfig struct {
	Email    string
	Password string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

type JWTConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Redis: RedisConfig{
			Addr:     cmd.String("redis-addr"),
			Password: cmd.String("redis-password"),
			DB:       int(cmd.Int("redis-db")),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		JWT: JWTConfig{
			Secret:     cmd.String("jwt-secret"),
			AccessTTL:  time.Duration(cmd.Int("jwt-access-ttl")) * time.Minute,
			RefreshTTL: time.Duration(cmd.Int("jwt-refresh-ttl")) * time.Hour,
		},
		Admin: AdminConfig{
			Email:    cmd.String("admin-email"),
			Password: cmd.String("admin-password"),
		},
	}
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/interactions.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Redis address for the verification cache (empty: in-memory cache)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_ADDR"), toml.TOML("redis.addr", configFile)),
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_PASSWORD"), toml.TOML("redis.password", configFile)),
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Value:   0,
			Usage:   "Redis database number",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_DB"), toml.TOML("redis.db", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Outbound mail sender address",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "TaxiUNN",
			Usage:   "Outbound mail sender display name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		&cli.StringFlag{
			Name:    "jwt-secret",
			Usage:   "Secret key for signing JWTs",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_SECRET"), toml.TOML("jwt.secret", configFile)),
		},
		&cli.IntFlag{
			Name:    "jwt-access-ttl",
			Value:   15,
			Usage:   "Access token lifetime in minutes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_ACCESS_TTL"), toml.TOML("jwt.access_ttl", configFile)),
		},
		&cli.IntFlag{
			Name:    "jwt-refresh-ttl",
			Value:   168,
			Usage:   "Refresh token lifetime in hours",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_REFRESH_TTL"), toml.TOML("jwt.refresh_ttl", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-email",
			Usage:   "Email for the bootstrap administrator account",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_EMAIL"), toml.TOML("admin.email", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-password",
			Usage:   "Password for the bootstrap administrator account",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_PASSWORD"), toml.TOML("admin.password", configFile)),
		},
	}
}
