package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/haccp/backend/internal/infrastructure/config"
	"github.com/haccp/backend/internal/infrastructure/logger"
	"github.com/haccp/backend/internal/infrastructure/migration"
	"github.com/haccp/backend/migrations"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "dir", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	command := args[0]

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Usage: migrate -dir <path> create <name> [description]")
		}
		target := dir
		if target == "" {
			target = "migrations"
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(target, args[1], description, time.Now())
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created", zap.Uint("version", mf.Version), zap.String("up", mf.UpPath), zap.String("down", mf.DownPath))
		return
	case "list":
		var source fs.FS = migrations.FS
		if dir != "" {
			source = os.DirFS(dir)
		}
		list, err := migration.ListMigrations(source)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, mf := range list {
			fmt.Printf("%06d  %s\n", mf.Version, mf.Name)
		}
		return
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if dir != "" {
		m, err = migration.NewFromDir(db, dir, log)
	} else {
		m, err = migration.NewEmbedded(db, migrations.FS, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		err = withIntArg(args, func(n int) error { return m.Steps(n) })
	case "goto":
		err = withIntArg(args, func(n int) error {
			if n < 0 {
				return fmt.Errorf("version must not be negative")
			}
			return m.GoTo(uint(n))
		})
	case "force":
		err = withIntArg(args, m.Force)
	case "version":
		version, dirty, verr := m.Version()
		if verr == nil {
			log.Info("Current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		err = verr
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func withIntArg(args []string, fn func(int) error) error {
	if len(args) < 2 {
		return fmt.Errorf("%s requires a numeric argument", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid number %q", args[1])
	}
	return fn(n)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `HACCP MES schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show the applied version
  force <version>       Mark a version as applied (repairs a dirty state)
  create <name> [desc]  Write a new empty migration pair into -dir
  list                  List available migrations

Flags:
  -dir string           Migration directory (default: embedded migrations)
  -log-level string     Log level (default: info)
`)
}
