// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestFlags(t *testing.T) {
	flags := Flags()

	assert.NotEmpty(t, flags)

	flagNames := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	assert.True(t, flagNames["host"], "should have host flag")
	assert.True(t, flagNames["port"], "should have port flag")
	assert.True(t, flagNames["log-level"], "should have log-level flag")
	assert.True(t, flagNames["database-dsn"], "should have database-dsn flag")
	assert.True(t, flagNames["redis-addr"], "should have redis-addr flag")
	assert.True(t, flagNames["smtp-host"], "should have smtp-host flag")
	assert.True(t, flagNames["jwt-secret"], "should have jwt-secret flag")
}

func TestNewFromCLI(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.NotNil(t, cfg)
			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 8080, cfg.Server.Port)
			assert.Equal(t, "info", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format)
			assert.Equal(t, "./data/interactions.db", cfg.Database.DSN)
			assert.Empty(t, cfg.Redis.Addr)
			assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
			assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTTL)

			return nil
		},
	}

	err := app.Run(context.Background(), []string{"test"})
	assert.NoError(t, err)
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "./data/test.db", cfg.Database.DSN)
			assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
			assert.Equal(t, "hunter2", cfg.JWT.Secret)
			assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)

			return nil
		},
	}

	args := []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9000",
		"--log-level", "debug",
		"--database-dsn", "./data/test.db",
		"--redis-addr", "localhost:6379",
		"--jwt-secret", "hunter2",
		"--jwt-access-ttl", "5",
	}
	err := app.Run(context.Background(), args)
	assert.NoError(t, err)
}
