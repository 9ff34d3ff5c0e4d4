package repository

import (
	"context"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

func (r *SQLRepository) ReplaceOtp(ctx context.Context, entry domain.OtpEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM otps WHERE identifier = ? AND type = ?`),
		entry.Identifier, entry.Type,
	); err != nil {
		return classify(err)
	}
	if _, err := tx.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO otps (identifier, code, type, expires_at) VALUES (?, ?, ?, ?)`),
		entry.Identifier, entry.Code, entry.Type, entry.ExpiresAt,
	); err != nil {
		return classify(err)
	}
	return tx.Commit()
}

// FindOtp matches on the exact triple. Expiry is checked by the caller.
func (r *SQLRepository) FindOtp(ctx context.Context, identifier string, channel domain.Channel, code string) (*domain.OtpEntry, error) {
	var entry domain.OtpEntry
	err := r.get(ctx, &entry, `
		SELECT identifier, code, type, expires_at
		FROM otps
		WHERE identifier = ? AND type = ? AND code = ?`, identifier, channel, code)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *SQLRepository) DeleteOtp(ctx context.Context, identifier string, channel domain.Channel) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM otps WHERE identifier = ? AND type = ?`), identifier, channel)
	return classify(err)
}
