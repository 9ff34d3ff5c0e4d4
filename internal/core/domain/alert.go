package domain

import "time"

type AlertType string

const (
	AlertEmergency AlertType = "EMERGENCY"
	AlertWeather   AlertType = "WEATHER"
	AlertTraffic   AlertType = "TRAFFIC"
	AlertHealth    AlertType = "HEALTH"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertEmergency, AlertWeather, AlertTraffic, AlertHealth:
		return true
	}
	return false
}

// AlertFeedLimit caps the public alert feed.
const AlertFeedLimit = 10

type Alert struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      AlertType `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
