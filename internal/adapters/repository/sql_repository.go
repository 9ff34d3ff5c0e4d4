package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

// Supported values of DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// SQLRepository implements ports.Store on Postgres (lib/pq or pgx) and on
// embedded SQLite. Queries are written with ? placeholders and rebound for
// the active driver.
type SQLRepository struct {
	db *sqlx.DB
}

var _ ports.Store = (*SQLRepository)(nil)

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Open connects with the named driver and verifies the connection.
func Open(ctx context.Context, driver, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres, DriverPgx:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns / 2)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// sqliteDSN turns on foreign keys and a sortable time format unless the DSN
// already sets them.
func sqliteDSN(dsn string) string {
	if !strings.Contains(dsn, "foreign_keys") {
		dsn = appendParam(dsn, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "_time_format") {
		dsn = appendParam(dsn, "_time_format=sqlite")
	}
	return dsn
}

func appendParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepository) isSQLite() bool {
	return r.db.DriverName() == DriverSQLite
}

// insert runs an INSERT ... RETURNING id statement.
func (r *SQLRepository) insert(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (int64, error) {
	var id int64
	if err := sqlx.GetContext(ctx, q, &id, r.db.Rebind(query), args...); err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// execOne runs a statement that must touch exactly one row.
func (r *SQLRepository) execOne(ctx context.Context, e sqlx.ExecerContext, query string, args ...any) error {
	res, err := e.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SQLRepository) get(ctx context.Context, dest any, query string, args ...any) error {
	return classify(r.db.GetContext(ctx, dest, r.db.Rebind(query), args...))
}

func (r *SQLRepository) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return classify(r.db.SelectContext(ctx, dest, r.db.Rebind(query), args...))
}

// classify maps driver errors onto the domain taxonomy. Unknown errors pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifyCode(string(pqErr.Code), err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyCode(pgErr.Code, err)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %v", domain.ErrInvalidReference, err)
		}
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return fmt.Errorf("%w: %v", domain.ErrInvalidReference, err)
		}
	}
	return err
}

func classifyCode(code string, err error) error {
	switch code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %v", domain.ErrInvalidReference, err)
	}
	return err
}
