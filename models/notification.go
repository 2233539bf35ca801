package models

import "time"

// Notification is a hub event shown to a person: a payment registered against
// their share, an invitation, or a due-date reminder produced by the daily job.
type Notification struct {
	ID        int       `json:"id" db:"id"`
	HubID     int       `json:"hub_id" db:"hub_id"`
	PersonID  *int      `json:"pessoa_id,omitempty" db:"pessoa_id"`
	Message   string    `json:"mensagem" db:"mensagem"`
	Read      bool      `json:"lida" db:"lida"`
	EventDate time.Time `json:"data_evento" db:"data_evento"`
	CreatedAt time.Time `json:"criado_em" db:"criado_em"`
}

// Report is a persisted JSON snapshot of hub aggregates at a point in time.
type Report struct {
	ID          int       `json:"id" db:"id"`
	HubID       int       `json:"hub_id" db:"hub_id"`
	Data        string    `json:"dados" db:"dados"`
	GeneratedAt time.Time `json:"gerado_em" db:"gerado_em"`
}
