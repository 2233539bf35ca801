package models

// Tag is a per-hub label attached to transactions.
type Tag struct {
	ID    int    `json:"id" db:"id"`
	HubID int    `json:"hub_id" db:"hub_id"`
	Name  string `json:"nome" db:"nome"`
	Color string `json:"cor,omitempty" db:"cor"`
}
