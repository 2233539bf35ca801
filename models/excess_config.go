package models

// DefaultExcessDescription is used when a hub has no description template
// configured. The {pessoa} and {data} placeholders receive the payer name and
// the payment date.
const DefaultExcessDescription = "Excedente de pagamento de {pessoa} em {data}"

// ExcessConfig governs how a hub handles leftover payment amounts. Read by
// the excess distributor, mutated only by hub administrators.
type ExcessConfig struct {
	ID                int     `json:"id" db:"id"`
	HubID             int     `json:"hub_id" db:"hub_id"`
	AutoCreateIncome  bool    `json:"auto_criar_receita_excedente" db:"auto_criar_receita_excedente"`
	MinimumAmount     float64 `json:"valor_minimo_excedente" db:"valor_minimo_excedente"`
	IncomeDescription string  `json:"descricao_receita_excedente" db:"descricao_receita_excedente"`
}
