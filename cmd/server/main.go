// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/taxiunn/interactions/internal/config"
	"github.com/taxiunn/interactions/internal/server"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "interactions",
		Usage:   "Staff accounts and project management backend",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Action:  server.Run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
