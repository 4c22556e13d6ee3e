package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DataFileName = "scores.db"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")

	// ErrNotFound is returned when a run has no recorded scores.
	ErrNotFound = errors.New("no scores found")
)

type dialect struct {
	ddl        string
	positional bool
}

var dialects = map[string]dialect{
	DriverSQLite:   {ddl: "sql/sqlite.sql"},
	DriverPostgres: {ddl: "sql/postgres.sql", positional: true},
}

// Store keeps the history of scores per solver run.
type Store struct {
	db      *sql.DB
	driver  string
	dialect dialect
}

// Open opens the database for the driver (sqlite or postgres). For sqlite
// the dsn is the database file path.
func Open(driver, dsn string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	if dsn == "" {
		return nil, errors.New("dsn not specified")
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite allows one writer at a time
		conn.SetMaxOpenConns(1)
	}
	slog.Debug("database opened", "driver", driver)
	return &Store{db: conn, driver: driver, dialect: d}, nil
}

// Init creates the schema. It is safe to call on an existing database.
func (s *Store) Init(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errDBNotInitialized
	}

	b, err := f.ReadFile(s.dialect.ddl)
	if err != nil {
		return fmt.Errorf("failed to read the schema creation file: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, string(b)); err != nil {
		return fmt.Errorf("failed to create %s database schema: %w", s.driver, err)
	}
	slog.Debug("db schema ready", "driver", s.driver)
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Driver() string {
	return s.driver
}

// rebind rewrites ? placeholders to $n for drivers that need positional ones.
func (s *Store) rebind(query string) string {
	if !s.dialect.positional {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
