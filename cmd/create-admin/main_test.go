package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/repository"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

func sqliteOptions(t *testing.T) *options {
	t.Helper()
	return &options{
		driver:   repository.DriverSQLite,
		dsn:      filepath.Join(t.TempDir(), "admin.db"),
		name:     "Root",
		email:    "Root@City.gov",
		password: "secret1",
	}
}

func lookup(t *testing.T, opts *options, email string) *domain.User {
	t.Helper()
	ctx := context.Background()
	db, err := repository.Open(ctx, opts.driver, opts.dsn, 1)
	require.NoError(t, err)
	defer db.Close()
	user, err := repository.NewSQLRepository(db).FindUserByEmail(ctx, email)
	require.NoError(t, err)
	return user
}

func TestRun_CreatesThenIsIdempotent(t *testing.T) {
	opts := sqliteOptions(t)

	msg, err := run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "created SUPER_ADMIN root@city.gov", msg)
	assert.Equal(t, domain.RoleSuperAdmin, lookup(t, opts, "root@city.gov").Role)

	msg, err = run(context.Background(), opts)
	require.NoError(t, err)
	assert.Contains(t, msg, "already a SUPER_ADMIN")
}

func TestRun_PromoteExistingCitizen(t *testing.T) {
	opts := sqliteOptions(t)
	ctx := context.Background()

	db, err := repository.Open(ctx, opts.driver, opts.dsn, 1)
	require.NoError(t, err)
	store := repository.NewSQLRepository(db)
	require.NoError(t, store.Migrate(ctx))
	_, err = store.CreateUser(ctx, domain.User{
		Name: "Citizen", Email: "root@city.gov", PasswordHash: "h", Role: domain.RoleCitizen, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = run(ctx, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--promote")

	opts.promote = true
	msg, err := run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "promoted root@city.gov to SUPER_ADMIN", msg)
	assert.Equal(t, domain.RoleSuperAdmin, lookup(t, opts, "root@city.gov").Role)
}

func TestRun_RejectsBadInput(t *testing.T) {
	opts := sqliteOptions(t)
	opts.password = "short"
	_, err := run(context.Background(), opts)
	assert.ErrorContains(t, err, "at least 6")

	opts = sqliteOptions(t)
	opts.dsn = ""
	_, err = run(context.Background(), opts)
	assert.ErrorContains(t, err, "DB_CONNECTION_STRING")
}

func TestCommand_RequiresFlags(t *testing.T) {
	cmd := newCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--email", "a@b.c"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"password" not set`)
}
