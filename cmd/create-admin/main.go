package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/repository"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/security"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

type options struct {
	driver   string
	dsn      string
	name     string
	email    string
	password string
	promote  bool
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a SUPER_ADMIN account",
		Long: "Create a SUPER_ADMIN account in the citizen services database.\n" +
			"With --promote an existing account with the same email is promoted instead.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			if opts.driver == "" {
				opts.driver = envOr("DB_DRIVER", repository.DriverPostgres)
			}
			if opts.dsn == "" {
				opts.dsn = os.Getenv("DB_CONNECTION_STRING")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			msg, err := run(ctx, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.driver, "driver", "", "database driver: postgres, pgx or sqlite (default $DB_DRIVER or postgres)")
	f.StringVar(&opts.dsn, "dsn", "", "connection string (default $DB_CONNECTION_STRING)")
	f.StringVar(&opts.name, "name", "Super Admin", "display name")
	f.StringVar(&opts.email, "email", "", "login email")
	f.StringVar(&opts.password, "password", "", "login password, at least 6 characters")
	f.BoolVar(&opts.promote, "promote", false, "promote the account when the email is already registered")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func run(ctx context.Context, opts *options) (string, error) {
	email := strings.ToLower(strings.TrimSpace(opts.email))
	if email == "" {
		return "", errors.New("email must not be empty")
	}
	if len(opts.password) < 6 {
		return "", errors.New("password must be at least 6 characters")
	}
	if opts.dsn == "" {
		return "", errors.New("no connection string: pass --dsn or set DB_CONNECTION_STRING")
	}

	db, err := repository.Open(ctx, opts.driver, opts.dsn, 2)
	if err != nil {
		return "", err
	}
	defer db.Close()

	store := repository.NewSQLRepository(db)
	if err := store.Migrate(ctx); err != nil {
		return "", err
	}

	hash, err := security.NewBcryptHasher().Hash(opts.password)
	if err != nil {
		return "", err
	}

	created, err := store.EnsureSuperAdmin(ctx, strings.TrimSpace(opts.name), email, hash)
	if err != nil {
		return "", err
	}
	if created {
		return fmt.Sprintf("created SUPER_ADMIN %s", email), nil
	}

	existing, err := store.FindUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing.Role == domain.RoleSuperAdmin {
		return fmt.Sprintf("%s is already a SUPER_ADMIN", email), nil
	}
	if !opts.promote {
		return "", fmt.Errorf("%s is registered as %s; rerun with --promote", email, existing.Role)
	}
	if err := store.UpdateUserRole(ctx, existing.ID, domain.RoleSuperAdmin, nil); err != nil {
		return "", err
	}
	return fmt.Sprintf("promoted %s to SUPER_ADMIN", email), nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
