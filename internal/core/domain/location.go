package domain

import "time"

// ExploreLocation is an admin-curated entry of the city directory.
type ExploreLocation struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Address      string    `db:"address" json:"address"`
	CategorySlug string    `db:"category_slug" json:"category_slug"`
	Rating       float64   `db:"rating" json:"rating"`
	CreatedBy    int64     `db:"created_by" json:"created_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
