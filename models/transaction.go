package models

import "time"

// Transaction type.
const (
	TypeExpense = "GASTO"
	TypeIncome  = "RECEITA"
)

// Cached payment status of a transaction. Always derivable from the sum of
// its participants' paid amounts; the column is a projection kept in sync by
// the payment workflow and the nightly sweep, never edited on its own.
const (
	StatusPending       = "PENDING"
	StatusPartiallyPaid = "PARTIALLY_PAID"
	StatusFullyPaid     = "FULLY_PAID"
)

// Transaction is an expense (GASTO) or income (RECEITA) entry of a hub.
// Expenses carry participant rows; pure income entries have none and are
// stored as FULLY_PAID. Soft-deleted via Deleted.
type Transaction struct {
	ID                 int        `json:"id" db:"id"`
	HubID              int        `json:"hub_id" db:"hub_id"`
	Description        string     `json:"descricao" db:"descricao"`
	TotalAmount        float64    `json:"valor_total" db:"valor_total"`
	Type               string     `json:"tipo" db:"tipo"`
	Date               time.Time  `json:"data_transacao" db:"data_transacao"`
	DueDate            *time.Time `json:"data_vencimento,omitempty" db:"data_vencimento"`
	PaymentStatus      string     `json:"status_pagamento" db:"status_pagamento"`
	InstallmentIndex   *int       `json:"parcela_atual,omitempty" db:"parcela_atual"`
	InstallmentTotal   *int       `json:"total_parcelas,omitempty" db:"total_parcelas"`
	InstallmentGroupID *string    `json:"grupo_parcelamento,omitempty" db:"grupo_parcelamento"`
	CreatedByPersonID  *int       `json:"criado_por_pessoa_id,omitempty" db:"criado_por_pessoa_id"`
	Deleted            bool       `json:"deletado" db:"deletado"`
	CreatedAt          time.Time  `json:"criado_em" db:"criado_em"`

	Participants []Participant `json:"participantes,omitempty"`
	Tags         []Tag         `json:"tags,omitempty"`
}

// Participant links a person to a transaction with the share they owe.
// AmountPaid is the only field the reconciliation workflow mutates after
// creation; 0 <= AmountPaid <= AmountOwed holds at rest.
type Participant struct {
	ID            int     `json:"id" db:"id"`
	TransactionID int     `json:"transacao_id" db:"transacao_id"`
	PersonID      int     `json:"pessoa_id" db:"pessoa_id"`
	AmountOwed    float64 `json:"valor_devido" db:"valor_devido"`
	AmountPaid    float64 `json:"valor_pago" db:"valor_pago"`
}

// PendingBalance is one row of the pending-balance resolver output.
type PendingBalance struct {
	TransactionID    int        `json:"transacao_id"`
	Description      string     `json:"descricao"`
	AmountOwed       float64    `json:"valor_devido"`
	AmountPaid       float64    `json:"valor_pago"`
	AmountPending    float64    `json:"valor_pendente"`
	DueDate          *time.Time `json:"data_vencimento,omitempty"`
	InstallmentIndex *int       `json:"parcela_atual,omitempty"`
	InstallmentTotal *int       `json:"total_parcelas,omitempty"`
}
