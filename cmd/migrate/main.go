package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/saransh1220/coursehub/internal/shared/infrastructure/config"
	"github.com/saransh1220/coursehub/pkg/migration"
)

type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Version() (migration.Status, error)
}

const usage = `usage: migrate [-path dir] <command>

commands:
  up            apply all pending migrations
  down          roll back every migration
  steps <n>     apply (n>0) or roll back (n<0) n migrations
  force <v>     mark version v as clean after a manual repair
  version       print the current version and dirty flag
`

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config.LoadDotEnv()
	cfg := config.Load()

	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	path := fs.String("path", cfg.Server.MigrationsPath, "directory holding the migration files")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	fs.Parse(os.Args[1:])

	runner := migration.NewRunner(&migration.Config{
		MigrationsPath: *path,
		DatabaseURL:    cfg.Database.URL(),
		Logger:         logger,
	})

	if err := execute(runner, fs.Args(), os.Stdout); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func execute(m migrator, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps", "force":
		if len(args) < 2 {
			return fmt.Errorf("%s needs a number", args[0])
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", args[1], err)
		}
		if args[0] == "steps" {
			return m.Steps(n)
		}
		return m.Force(n)
	case "version":
		status, err := m.Version()
		if err != nil {
			return err
		}
		return json.NewEncoder(out).Encode(status)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}
