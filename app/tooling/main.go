package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jrazmi/tasktracker/app/tooling/commands"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/mid"
	"github.com/jrazmi/tasktracker/infrastructure/databases/postgresdb"
	"github.com/jrazmi/tasktracker/sdk/environment"
	"github.com/jrazmi/tasktracker/sdk/logger"
)

var build = "develop"
var appName = "TASKTRACKER"

func processCommands(ctx context.Context, log *logger.Logger, command string, args []string) error {
	switch command {
	case "migrate":
		pg, err := postgresdb.NewFromEnv(appName, postgresdb.WithTracer(postgresdb.NewLoggingQueryTracer(log.Logger)))
		if err != nil {
			return fmt.Errorf("configuring postgres support: %w", err)
		}
		defer func() {
			log.InfoContext(ctx, "shutdown", "status", "closing database connection")
			pg.Close()
		}()
		log.InfoContext(ctx, "init", "service", "postgres")

		if err := commands.Migrate(ctx, log.Logger, pg); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		return nil

	case "token":
		var cfg mid.AuthConfig
		if err := environment.ParseEnvTags(appName, &cfg); err != nil {
			return fmt.Errorf("parsing auth config: %w", err)
		}
		err := commands.Token(os.Stdout, cfg, args)
		if errors.Is(err, commands.ErrHelp) {
			return nil
		}
		return err

	default:
		printHelp()
		return nil
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  migrate - apply the postgres migrations in schema/pgmigrations")
	fmt.Println("  token   - print a bearer token for -owner (uses AUTH_JWT_* settings)")
	fmt.Println()
	fmt.Println("Use 'go run app/tooling/main.go <command> --help' for command-specific help.")
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	var command string
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if command == "help" || command == "--help" || command == "-h" {
		printHelp()
		return nil
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		args := []string{}
		if len(os.Args) > 2 {
			args = os.Args[2:]
		}
		done <- processCommands(ctx, log, command, args)
	}()

	select {
	case err := <-done:
		return err

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		select {
		case err := <-done:
			return err
		case <-shutdownCtx.Done():
			return fmt.Errorf("shutdown timeout: %w", shutdownCtx.Err())
		}
	}
}

func main() {
	environment.LoadEnv()

	log, err := logger.NewFromEnv(appName, logger.WithService("tooling"), logger.WithOutput(os.Stderr))
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}
	ctx := context.Background()

	if err = run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}
