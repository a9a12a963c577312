// Package store persists versioned entities in a relational schema that
// the search package queries: entity, revision, tag, field and a full-text
// entity_text table.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/aidanlsb/sift/internal/config"
)

// Store is a handle on the entity database.
type Store struct {
	db     *sql.DB
	driver string
	stmts  statements
	log    *zap.Logger
}

// Open connects to the database described by cfg, configures the pool and
// creates the schema if needed. cfg.DSN must already be resolved.
func Open(ctx context.Context, cfg config.Database, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var db *sql.DB
	driverName := cfg.DriverName()
	switch driverName {
	case config.DriverSQLite:
		var err error
		db, err = sql.Open("sqlite", sqliteDSN(cfg.DSN))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if cfg.DSN == "" || strings.Contains(cfg.DSN, ":memory:") {
			// Every in-memory connection is a separate database.
			db.SetMaxOpenConns(1)
		}
	case config.DriverMySQL:
		mcfg, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		mcfg.MultiStatements = false
		if mcfg.Params == nil {
			mcfg.Params = map[string]string{}
		}
		if _, ok := mcfg.Params["sql_mode"]; !ok {
			mcfg.Params["sql_mode"] = "'STRICT_ALL_TABLES'"
		}
		connector, err := mysql.NewConnector(mcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		db = sql.OpenDB(connector)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := configurePool(db, cfg); err != nil {
		db.Close()
		return nil, err
	}

	s := newStore(db, driverName, log)
	if err := s.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenInMemory opens an in-memory SQLite store (for testing).
func OpenInMemory() (*Store, error) {
	return Open(context.Background(), config.Database{Driver: config.DriverSQLite, DSN: ":memory:"}, nil)
}

func newStore(db *sql.DB, driverName string, log *zap.Logger) *Store {
	stmts := sqliteStatements
	if driverName == config.DriverMySQL {
		stmts = mysqlStatements
	}
	return &Store{db: db, driver: driverName, stmts: stmts, log: log}
}

// sqliteDSN appends the connection pragmas to a file path or :memory:.
func sqliteDSN(path string) string {
	if path == "" {
		path = ":memory:"
	}
	pragmas := "_pragma=case_sensitive_like(1)&_pragma=busy_timeout(5000)"
	if !strings.Contains(path, ":memory:") {
		pragmas += "&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + pragmas
}

func configurePool(db *sql.DB, cfg config.Database) error {
	if cfg.MaxOpen > 0 {
		db.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	lifetime, err := cfg.Lifetime()
	if err != nil {
		return err
	}
	if lifetime > 0 {
		db.SetConnMaxLifetime(lifetime)
	}
	return nil
}

// initialize creates the database schema.
func (s *Store) initialize(ctx context.Context) error {
	return s.retry(ctx, "initialize schema", func() error {
		if s.driver == config.DriverMySQL {
			for _, stmt := range mysqlSchema {
				if _, err := s.db.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to initialize database schema: %w", err)
				}
			}
		} else if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
			return fmt.Errorf("failed to initialize database schema: %w", err)
		}

		if _, err := s.db.ExecContext(ctx, `REPLACE INTO meta (name, value) VALUES ('schema_version', ?)`,
			fmt.Sprintf("%d", SchemaVersion)); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
		s.log.Debug("schema ready", zap.String("driver", s.driver), zap.Int("version", SchemaVersion))
		return nil
	})
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the database/sql driver name, "sqlite" or "mysql".
func (s *Store) Driver() string {
	return s.driver
}

// BeginRead validates a pooled connection and opens a transaction for
// searching, retrying once if the connection turns out to be dead.
func (s *Store) BeginRead(ctx context.Context) (*sql.Tx, error) {
	var tx *sql.Tx
	err := s.retry(ctx, "begin read", func() error {
		if err := s.db.PingContext(ctx); err != nil {
			return err
		}
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("begin read: %w", err)
	}
	return tx, nil
}

// retry runs fn, running it a second time if the first attempt failed on
// a dead connection.
func (s *Store) retry(ctx context.Context, op string, fn func() error) error {
	err := fn()
	if err == nil || !isDeadConn(err) || ctx.Err() != nil {
		return err
	}
	s.log.Warn("dead database connection, retrying",
		zap.String("op", op),
		zap.String("driver", s.driver),
		zap.Error(err),
	)
	return fn()
}
