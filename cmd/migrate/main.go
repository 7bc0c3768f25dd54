// Command migrate applies and authors the schema migrations under
// migrations/<driver>.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var errUsage = errors.New("invalid arguments")

// env is what every command runs with
type env struct {
	log            *zap.Logger
	cfg            *config.Config
	migrationsPath string
	args           []string
}

// dbCommand runs against an open migrator
type dbCommand func(e *env, m *migration.Migrator) error

// fileCommand only touches the migrations directory
type fileCommand func(e *env) error

var fileCommands = map[string]fileCommand{
	"create": createCmd,
	"list":   listCmd,
}

var dbCommands = map[string]dbCommand{
	"up":      func(_ *env, m *migration.Migrator) error { return m.Up() },
	"down":    func(_ *env, m *migration.Migrator) error { return m.Down() },
	"step":    stepCmd,
	"goto":    gotoCmd,
	"version": versionCmd,
	"force":   forceCmd,
	"drop":    dropCmd,
}

func main() {
	var (
		migrationsPath string
		configFile     string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&configFile, "config", "", "Path to a config.toml (default: ./config.toml)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := loadConfig(configFile)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	path, err := resolveMigrationsPath(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}
	e := &env{log: log, cfg: cfg, migrationsPath: path, args: args[1:]}

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("driver", cfg.Database.Driver),
		zap.String("migrations_path", path),
	)

	if run, ok := fileCommands[command]; ok {
		exitOn(log, command, run(e))
		return
	}
	run, ok := dbCommands[command]
	if !ok {
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}

	db, err := openDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	// the migrator owns db from here on
	m, err := migration.New(db, cfg.Database.Driver, path, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	err = run(e, m)
	if closeErr := m.Close(); closeErr != nil {
		log.Warn("Failed to close migrator", zap.Error(closeErr))
	}
	exitOn(log, command, err)
}

func exitOn(log *zap.Logger, command string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, errUsage) {
		log.Error(err.Error(), zap.String("command", command))
		printUsage()
		os.Exit(2)
	}
	log.Fatal("Command failed", zap.String("command", command), zap.Error(err))
}

func createCmd(e *env) error {
	if len(e.args) < 1 {
		return fmt.Errorf("%w: migration name required", errUsage)
	}
	description := ""
	if len(e.args) > 1 {
		description = e.args[1]
	}

	files, err := migration.CreateMigration(e.migrationsPath, e.args[0], description)
	if err != nil {
		return err
	}
	for _, mf := range files {
		e.log.Info("Migration created",
			zap.String("driver", mf.Driver),
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
	}
	return nil
}

func listCmd(e *env) error {
	migrations, err := migration.ListMigrations(e.migrationsPath, e.cfg.Database.Driver)
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		e.log.Info("No migrations found")
		return nil
	}
	e.log.Info("Available migrations", zap.Int("count", len(migrations)))
	for _, name := range migrations {
		fmt.Println("  -", name)
	}
	return nil
}

func stepCmd(e *env, m *migration.Migrator) error {
	if len(e.args) < 1 {
		return fmt.Errorf("%w: step count required", errUsage)
	}
	n, err := strconv.Atoi(e.args[0])
	if err != nil {
		return fmt.Errorf("%w: invalid step count %q", errUsage, e.args[0])
	}
	return m.Steps(n)
}

func gotoCmd(e *env, m *migration.Migrator) error {
	if len(e.args) < 1 {
		return fmt.Errorf("%w: version required", errUsage)
	}
	version, err := strconv.ParseUint(e.args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("%w: invalid version %q", errUsage, e.args[0])
	}
	return m.GoTo(uint(version))
}

func versionCmd(e *env, m *migration.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		e.log.Info("No migrations applied")
		return nil
	}
	e.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func forceCmd(e *env, m *migration.Migrator) error {
	if len(e.args) < 1 {
		return fmt.Errorf("%w: version required", errUsage)
	}
	version, err := strconv.Atoi(e.args[0])
	if err != nil {
		return fmt.Errorf("%w: invalid version %q", errUsage, e.args[0])
	}
	return m.Force(version)
}

func dropCmd(e *env, m *migration.Migrator) error {
	if !slices.Contains(e.args, "-confirm") && !slices.Contains(e.args, "--confirm") {
		return fmt.Errorf("%w: drop needs -confirm", errUsage)
	}
	return m.Drop()
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// resolveMigrationsPath returns flagPath, else ./migrations, else the
// migrations directory two levels above the executable
func resolveMigrationsPath(flagPath string) (string, error) {
	path := flagPath
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	return filepath.Abs(path)
}

// openDB opens a plain connection for the configured driver. The sqlite3
// driver is registered by golang-migrate's sqlite3 package.
func openDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	if cfg.Driver == config.DriverSQLite {
		return sql.Open("sqlite3", "file:"+cfg.Path+"?_foreign_keys=1&_busy_timeout=5000")
	}
	return sql.Open("postgres", cfg.DSN())
}

func printUsage() {
	fmt.Println(`Stock Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Create a new migration file pair for every driver
  list                  List the migrations of the configured driver

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -config string        Path to config.toml (default: ./config.toml)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  STOCK_DATABASE_DRIVER, STOCK_DATABASE_PATH, STOCK_DATABASE_HOST, STOCK_DATABASE_PORT,
  STOCK_DATABASE_USER, STOCK_DATABASE_PASSWORD, STOCK_DATABASE_DBNAME, STOCK_DATABASE_SSLMODE

Examples:
  migrate up
  migrate step -1
  migrate create add_count_notes "Free text notes on stock counts"
  migrate version`)
}
