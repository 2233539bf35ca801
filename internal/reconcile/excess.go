package reconcile

import (
	"strings"
	"time"

	"github.com/alissonfar/expense-hub-sub001/models"
	"github.com/alissonfar/expense-hub-sub001/utils"
)

// ExcessDecision is the outcome of the excess policy for one payment. It is
// taken exactly once, at payment creation; re-creating a payment always
// produces a fresh decision.
type ExcessDecision struct {
	// Record marks the payment with tem_excedente and the amount.
	Record bool
	// Materialize creates a RECEITA transaction for the amount and links it
	// to the payment.
	Materialize bool
	// Description of the income transaction when Materialize is set.
	Description string
}

// DecideExcess applies the hub policy to a leftover amount. process and
// createIncome are the caller flags; for simple payments the handler fills
// createIncome from the hub configuration.
func DecideExcess(cfg models.ExcessConfig, process, createIncome bool, excess float64, payerName string, date time.Time) ExcessDecision {
	if excess < utils.CentEpsilon {
		return ExcessDecision{}
	}
	d := ExcessDecision{Record: true}
	if !process || !createIncome {
		return d
	}
	if cfg.MinimumAmount > 0 && excess < cfg.MinimumAmount-utils.CentEpsilon {
		// Below the configured threshold: recorded, not materialized.
		return d
	}
	d.Materialize = true
	d.Description = ExcessDescription(cfg, payerName, date)
	return d
}

// ExcessDescription renders the configured description template, falling
// back to the default when the hub has none.
func ExcessDescription(cfg models.ExcessConfig, payerName string, date time.Time) string {
	template := cfg.IncomeDescription
	if strings.TrimSpace(template) == "" {
		template = models.DefaultExcessDescription
	}
	out := strings.ReplaceAll(template, "{pessoa}", payerName)
	out = strings.ReplaceAll(out, "{data}", date.Format("02/01/2006"))
	return out
}
