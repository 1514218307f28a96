package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"fjacquet/settle2qif/internal/logging"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateLogger routes golang-migrate output to a logging.Logger at debug level.
type migrateLogger struct {
	log logging.Logger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool { return true }

// RunMigrations brings the schema at dbPath up to date and returns the
// resulting schema version.
func RunMigrations(dbPath string, log logging.Logger) (uint, error) {
	log = log.WithField(logging.FieldDatabase, dbPath)

	// migrate closes the handle it is given, so it gets its own
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open migration database: %w", err)
	}
	defer conn.Close()

	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("create sqlite driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()
	m.Log = migrateLogger{log: log}

	before, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug("History schema up to date", logging.F("version", before))
		return before, nil
	case err != nil:
		return 0, fmt.Errorf("run migrations: %w", err)
	}

	after, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return after, fmt.Errorf("schema version %d left dirty", after)
	}
	log.Info("Migrated history schema",
		logging.F("from_version", before),
		logging.F("to_version", after))
	return after, nil
}
