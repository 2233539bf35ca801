package models

import "time"

// Payment methods accepted by the API. Display labels are a frontend concern;
// the stored values are exactly these.
const (
	MethodPix        = "PIX"
	MethodCash       = "DINHEIRO"
	MethodTransfer   = "TRANSFERENCIA"
	MethodDebitCard  = "CARTAO_DEBITO"
	MethodCreditCard = "CARTAO_CREDITO"
	MethodOther      = "OUTROS"
)

// ValidPaymentMethod reports whether forma is one of the accepted methods.
func ValidPaymentMethod(forma string) bool {
	switch forma {
	case MethodPix, MethodCash, MethodTransfer, MethodDebitCard, MethodCreditCard, MethodOther:
		return true
	}
	return false
}

// Payment records money received from one person on one date, applied to one
// or more transactions through PaymentAllocation rows. Deleting a payment
// reverses its effect on every transaction it touched.
type Payment struct {
	ID             int       `json:"id" db:"id"`
	HubID          int       `json:"hub_id" db:"hub_id"`
	PersonID       int       `json:"pessoa_id" db:"pessoa_id"`
	TotalAmount    float64   `json:"valor_total" db:"valor_total"`
	Date           time.Time `json:"data_pagamento" db:"data_pagamento"`
	Method         string    `json:"forma_pagamento" db:"forma_pagamento"`
	Notes          string    `json:"observacoes,omitempty" db:"observacoes"`
	HasExcess      bool      `json:"tem_excedente" db:"tem_excedente"`
	ExcessAmount   float64   `json:"valor_excedente" db:"valor_excedente"`
	ExcessIncomeID *int      `json:"receita_excedente_id,omitempty" db:"receita_excedente_id"`
	CreatedAt      time.Time `json:"criado_em" db:"criado_em"`

	Allocations []PaymentAllocation `json:"transacoes,omitempty"`
}

// PaymentAllocation records how much of a payment was applied to one
// transaction.
type PaymentAllocation struct {
	ID            int     `json:"id" db:"id"`
	PaymentID     int     `json:"pagamento_id" db:"pagamento_id"`
	TransactionID int     `json:"transacao_id" db:"transacao_id"`
	AmountApplied float64 `json:"valor_aplicado" db:"valor_aplicado"`
}

// SimplePaymentInput is the payload for an individual payment against a
// single transaction. The full paid amount is applied to that transaction;
// any difference is handled as excess with the hub defaults.
type SimplePaymentInput struct {
	PersonID      int     `json:"pessoa_id"`
	TransactionID int     `json:"transacao_id"`
	AmountPaid    float64 `json:"valor_pago"`
	Date          string  `json:"data_pagamento"`
	Method        string  `json:"forma_pagamento"`
	Notes         string  `json:"observacoes"`
}

// AllocationInput is one (transaction, amount) pair of a composite payment.
type AllocationInput struct {
	TransactionID int     `json:"transacao_id"`
	AmountApplied float64 `json:"valor_aplicado"`
}

// CompositePaymentInput is the payload for a payment split across several
// transactions. The two payment shapes are distinct types on purpose: their
// validation paths must not be confused.
type CompositePaymentInput struct {
	PersonID           int               `json:"pessoa_id"`
	Allocations        []AllocationInput `json:"transacoes"`
	TotalAmount        float64           `json:"valor_total"`
	Date               string            `json:"data_pagamento"`
	Method             string            `json:"forma_pagamento"`
	ProcessExcess      bool              `json:"processar_excedente"`
	CreateExcessIncome bool              `json:"criar_receita_excedente"`
	Notes              string            `json:"observacoes"`
}
