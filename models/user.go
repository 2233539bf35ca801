package models

import "time"

// User is a registered account. A user can belong to several hubs, each
// membership being a Person row with its own role and access policy.
type User struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"nome" db:"nome"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"senha,omitempty" db:"senha"`
	IsGod     bool      `json:"is_god" db:"is_god"`
	CreatedAt time.Time `json:"criado_em" db:"criado_em"`
}
