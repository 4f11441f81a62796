// Command migrate applies or rolls back the embedded schema migrations.
//
//	migrate up
//	migrate down 1
//	migrate version
//	migrate force 1
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/fkhayef/splitledger/internal/config"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/pkg/logging"
)

const usage = `usage: migrate <command>

commands:
  up          apply all pending migrations
  down N      roll back N migrations
  version     print the current schema version
  force V     set the schema version without running migrations`

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	mg, err := database.NewMigrator(database.Config{
		Dialect: database.Dialect(cfg.DatabaseDriver),
		DSN:     cfg.DatabaseURL,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("Failed to open migrator", "error", err)
		os.Exit(1)
	}

	code := 0
	if err := runCommand(mg, flag.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			code = 2
		} else {
			logger.Error("Migration failed", "error", err)
			code = 1
		}
	}
	if err := mg.Close(); err != nil {
		logger.Warn("Failed to close migrator", "error", err)
	}
	os.Exit(code)
}

var errUsage = errors.New("invalid usage")

// migrator is the part of database.Migrator the commands use.
type migrator interface {
	Up() error
	Down(steps int) error
	Version() (uint, bool, error)
	Force(version int) error
}

func runCommand(mg migrator, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	intArg := func() (int, error) {
		if len(args) != 2 {
			return 0, errUsage
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q is not a non-negative integer", errUsage, args[1])
		}
		return n, nil
	}

	switch args[0] {
	case "up":
		return mg.Up()
	case "down":
		n, err := intArg()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: down needs at least one step", errUsage)
		}
		return mg.Down(n)
	case "version":
		v, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "version %d dirty=%t\n", v, dirty)
		return err
	case "force":
		v, err := intArg()
		if err != nil {
			return err
		}
		return mg.Force(v)
	}
	return errUsage
}
