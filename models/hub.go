package models

import "time"

// Role of a person inside a hub.
const (
	RoleOwner        = "OWNER"
	RoleAdmin        = "ADMIN"
	RoleCollaborator = "COLLABORATOR"
	RoleViewer       = "VIEWER"
)

// Data-access policy of a person inside a hub.
const (
	AccessGlobal     = "GLOBAL"
	AccessIndividual = "INDIVIDUAL"
)

// ValidRole reports whether papel is one of the known roles.
func ValidRole(papel string) bool {
	switch papel {
	case RoleOwner, RoleAdmin, RoleCollaborator, RoleViewer:
		return true
	}
	return false
}

// ValidAccessPolicy reports whether politica is one of the known policies.
func ValidAccessPolicy(politica string) bool {
	return politica == AccessGlobal || politica == AccessIndividual
}

// Hub is the multi-tenant root. Every transaction, payment, tag and
// configuration row belongs to exactly one hub.
type Hub struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"nome" db:"nome"`
	CreatedAt time.Time `json:"criado_em" db:"criado_em"`
}

// Person is a member of a hub. People are soft-deleted (Ativo=false) so
// historical participant and payment rows stay resolvable.
type Person struct {
	ID           int       `json:"id" db:"id"`
	HubID        int       `json:"hub_id" db:"hub_id"`
	UserID       *int      `json:"usuario_id,omitempty" db:"usuario_id"`
	Name         string    `json:"nome" db:"nome"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"papel" db:"papel"`
	AccessPolicy string    `json:"politica_acesso" db:"politica_acesso"`
	Active       bool      `json:"ativo" db:"ativo"`
	CreatedAt    time.Time `json:"criado_em" db:"criado_em"`
}

// Invite is a pending hub invitation. Accepting it creates the Person row.
type Invite struct {
	ID           int       `json:"id" db:"id"`
	HubID        int       `json:"hub_id" db:"hub_id"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"papel" db:"papel"`
	AccessPolicy string    `json:"politica_acesso" db:"politica_acesso"`
	Code         string    `json:"codigo" db:"codigo"`
	Used         bool      `json:"usado" db:"usado"`
	CreatedAt    time.Time `json:"criado_em" db:"criado_em"`
}
