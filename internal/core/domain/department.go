package domain

type Department struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// DefaultDepartments are seeded on first boot.
var DefaultDepartments = []Department{
	{Name: "Waste Management", Description: "Handles city-wide garbage collection and recycling."},
	{Name: "Transport", Description: "Manages public transit, roads, and traffic signals."},
	{Name: "Water & Power", Description: "Ensures stable supply of water and electricity."},
	{Name: "Public Safety", Description: "Police, fire, and emergency response services."},
}
