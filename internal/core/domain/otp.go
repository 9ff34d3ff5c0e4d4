package domain

import "time"

// Channel is the identifier type an OTP was issued for.
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelMobile Channel = "mobile"
)

type OtpEntry struct {
	Identifier string    `db:"identifier"`
	Code       string    `db:"code"`
	Type       Channel   `db:"type"`
	ExpiresAt  time.Time `db:"expires_at"`
}

func (e OtpEntry) ExpiredAt(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
