package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS departments (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		mobile TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('CITIZEN', 'DEPT_ADMIN', 'SUPER_ADMIN')),
		department_id BIGINT REFERENCES departments(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id BIGSERIAL PRIMARY KEY,
		citizen_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		department_id BIGINT NOT NULL REFERENCES departments(id),
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'IN_PROGRESS', 'RESOLVED')),
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		image_url TEXT,
		resolution_notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_citizen ON complaints (citizen_id)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_department ON complaints (department_id)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('EMERGENCY', 'WEATHER', 'TRAFFIC', 'HEALTH')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		department TEXT NOT NULL,
		description TEXT NOT NULL,
		deadline DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS job_applications (
		id BIGSERIAL PRIMARY KEY,
		job_id BIGINT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		citizen_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		resume_url TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED')),
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (job_id, citizen_id)
	)`,
	`CREATE TABLE IF NOT EXISTS otps (
		identifier TEXT NOT NULL,
		code TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('email', 'mobile')),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_otps_identifier ON otps (identifier, type)`,
	`CREATE TABLE IF NOT EXISTS explore_locations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		category_slug TEXT NOT NULL,
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_by BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		event_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		processed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_unprocessed ON outbox_events (created_at) WHERE processed_at IS NULL`,
	`CREATE OR REPLACE FUNCTION notify_outbox_event() RETURNS trigger AS $$
	BEGIN
		PERFORM pg_notify('outbox_channel', NEW.id::text);
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS outbox_events_notify ON outbox_events`,
	`CREATE TRIGGER outbox_events_notify AFTER INSERT ON outbox_events
		FOR EACH ROW EXECUTE FUNCTION notify_outbox_event()`,
}

// The SQLite schema stores DATE as TEXT; domain.Date scans both forms.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS departments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		mobile TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('CITIZEN', 'DEPT_ADMIN', 'SUPER_ADMIN')),
		department_id INTEGER REFERENCES departments(id),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		citizen_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		department_id INTEGER NOT NULL REFERENCES departments(id),
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'IN_PROGRESS', 'RESOLVED')),
		latitude REAL,
		longitude REAL,
		image_url TEXT,
		resolution_notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_citizen ON complaints (citizen_id)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_department ON complaints (department_id)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('EMERGENCY', 'WEATHER', 'TRAFFIC', 'HEALTH')),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		department TEXT NOT NULL,
		description TEXT NOT NULL,
		deadline TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS job_applications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id INTEGER NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		citizen_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		resume_url TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED')),
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (job_id, citizen_id)
	)`,
	`CREATE TABLE IF NOT EXISTS otps (
		identifier TEXT NOT NULL,
		code TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('email', 'mobile')),
		expires_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_otps_identifier ON otps (identifier, type)`,
	`CREATE TABLE IF NOT EXISTS explore_locations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		category_slug TEXT NOT NULL,
		rating REAL NOT NULL DEFAULT 0,
		created_by INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		processed_at DATETIME
	)`,
}

// Migrate creates missing tables. It is idempotent.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	statements := postgresSchema
	if r.isSQLite() {
		statements = sqliteSchema
	}
	for i, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}

// SeedDepartments inserts the default departments when the table is empty.
func (r *SQLRepository) SeedDepartments(ctx context.Context) (int, error) {
	var count int
	if err := r.get(ctx, &count, `SELECT COUNT(*) FROM departments`); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	for _, d := range domain.DefaultDepartments {
		if _, err := r.CreateDepartment(ctx, d); err != nil {
			return 0, fmt.Errorf("seed department %q: %w", d.Name, err)
		}
	}
	return len(domain.DefaultDepartments), nil
}

// EnsureSuperAdmin creates a SUPER_ADMIN with the given credentials unless the
// email is already registered. It reports whether a row was created.
func (r *SQLRepository) EnsureSuperAdmin(ctx context.Context, name, email, passwordHash string) (bool, error) {
	_, err := r.FindUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	_, err = r.CreateUser(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleSuperAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrConflict) {
		return false, nil
	}
	return err == nil, err
}
