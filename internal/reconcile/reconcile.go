// Package reconcile holds the pure reconciliation core: pending-balance math,
// payment allocation planning and reversal planning. It never touches the
// database; the storage layer loads the touched rows under lock, asks this
// package for a plan and applies it inside one transaction.
package reconcile

import (
	"sort"
	"time"

	"github.com/alissonfar/expense-hub-sub001/models"
	"github.com/alissonfar/expense-hub-sub001/utils"
)

// ParticipantState is a snapshot of one transaction-participant row.
type ParticipantState struct {
	PersonID   int
	AmountOwed float64
	AmountPaid float64
}

// TransactionState is a snapshot of a transaction and all of its participant
// rows, loaded by the caller before planning.
type TransactionState struct {
	ID               int
	HubID            int
	Type             string
	Description      string
	Deleted          bool
	DueDate          *time.Time
	InstallmentIndex *int
	InstallmentTotal *int
	Participants     []ParticipantState
}

func (t *TransactionState) participant(personID int) *ParticipantState {
	for i := range t.Participants {
		if t.Participants[i].PersonID == personID {
			return &t.Participants[i]
		}
	}
	return nil
}

// Pending returns how much of the owed amount is still open, floored at zero.
func Pending(owed, paid float64) float64 {
	p := utils.RoundCents(owed - paid)
	if p < utils.CentEpsilon {
		return 0
	}
	return p
}

// Settled reports whether a participant row is considered paid off.
func Settled(owed, paid float64) bool {
	return Pending(owed, paid) == 0
}

// DeriveStatus computes the payment status of a transaction from its
// participant rows. A transaction with no participants (pure income) counts
// as fully paid: there is nothing owed on it.
func DeriveStatus(participants []ParticipantState) string {
	if len(participants) == 0 {
		return models.StatusFullyPaid
	}
	allPaid := true
	allZero := true
	for _, p := range participants {
		if !Settled(p.AmountOwed, p.AmountPaid) {
			allPaid = false
		}
		if p.AmountPaid >= utils.CentEpsilon {
			allZero = false
		}
	}
	switch {
	case allPaid:
		return models.StatusFullyPaid
	case allZero:
		return models.StatusPending
	default:
		return models.StatusPartiallyPaid
	}
}

// PendingFor computes the resolver output for one person over a set of
// loaded transactions. Settled rows are excluded; the computation always
// starts from participant rows, never from the cached transaction status.
// Output is sorted by transaction id for stable responses.
func PendingFor(personID int, txs []TransactionState) []models.PendingBalance {
	out := []models.PendingBalance{}
	for _, tx := range txs {
		if tx.Deleted {
			continue
		}
		p := tx.participant(personID)
		if p == nil {
			continue
		}
		pending := Pending(p.AmountOwed, p.AmountPaid)
		if pending == 0 {
			continue
		}
		out = append(out, models.PendingBalance{
			TransactionID:    tx.ID,
			Description:      tx.Description,
			AmountOwed:       p.AmountOwed,
			AmountPaid:       p.AmountPaid,
			AmountPending:    pending,
			DueDate:          tx.DueDate,
			InstallmentIndex: tx.InstallmentIndex,
			InstallmentTotal: tx.InstallmentTotal,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out
}

// Pair is one (transaction, amount) element of an allocation request.
type Pair struct {
	TransactionID int
	Amount        float64
}

// AllocationRequest is the validated-to-be input of PlanAllocation.
type AllocationRequest struct {
	PayerPersonID int
	PayerHubID    int
	TotalAmount   float64
	Pairs         []Pair
}

// PlannedEntry is the effect of one allocation pair: the payer participant's
// new paid amount and the transaction's rederived status.
type PlannedEntry struct {
	TransactionID int
	AmountApplied float64
	NewAmountPaid float64
	NewStatus     string
}

// AllocationPlan is the full, already-validated effect of a payment. The
// storage layer applies it verbatim inside one database transaction.
type AllocationPlan struct {
	Entries []PlannedEntry
	// Excess is max(0, total paid - sum applied), rounded to cents.
	Excess float64
}

// PlanAllocation validates a payment request against the loaded transaction
// snapshots and, when everything holds, returns the plan. Any violation
// returns a *ValidationError or *NotFoundError and no plan; nothing is ever
// partially planned.
func PlanAllocation(req AllocationRequest, txs map[int]*TransactionState) (*AllocationPlan, error) {
	verr := &ValidationError{}

	if !utils.IsPositiveAmount(req.TotalAmount) {
		verr.add("valor_total", "valor total do pagamento deve ser maior que zero")
	}
	if len(req.Pairs) == 0 {
		verr.add("transacoes", "pelo menos uma transacao deve ser informada")
	}

	seen := make(map[int]bool, len(req.Pairs))
	var sumApplied float64
	for _, pair := range req.Pairs {
		tx, ok := txs[pair.TransactionID]
		if !ok || tx.Deleted {
			return nil, &NotFoundError{Resource: "transacao", ID: pair.TransactionID}
		}
		if seen[pair.TransactionID] {
			verr.add("transacoes", "transacao repetida na lista de alocacoes")
			continue
		}
		seen[pair.TransactionID] = true

		if tx.HubID != req.PayerHubID {
			verr.add("transacao_id", "transacao pertence a outro hub")
			continue
		}
		if tx.Type != models.TypeExpense {
			verr.add("transacao_id", "pagamentos so podem ser aplicados a transacoes de gasto")
			continue
		}
		p := tx.participant(req.PayerPersonID)
		if p == nil {
			verr.add("pessoa_id", "pessoa nao participa da transacao informada")
			continue
		}
		if !utils.IsPositiveAmount(pair.Amount) {
			verr.add("valor_aplicado", "valor aplicado deve ser maior que zero")
			continue
		}
		pending := Pending(p.AmountOwed, p.AmountPaid)
		if pair.Amount > pending+utils.CentEpsilon {
			verr.add("valor_aplicado", "valor aplicado excede o valor pendente da transacao")
			continue
		}
		sumApplied += pair.Amount
	}

	sumApplied = utils.RoundCents(sumApplied)
	if sumApplied > req.TotalAmount+utils.CentEpsilon {
		verr.add("valor_total", "soma dos valores aplicados excede o valor total pago")
	}
	if len(verr.Problems) > 0 {
		return nil, verr
	}

	plan := &AllocationPlan{}
	for _, pair := range req.Pairs {
		tx := txs[pair.TransactionID]
		p := tx.participant(req.PayerPersonID)

		newPaid := utils.RoundCents(p.AmountPaid + pair.Amount)
		// Absorb sub-cent float drift so the boundary invariant holds at rest.
		if newPaid > p.AmountOwed && newPaid-p.AmountOwed <= utils.CentEpsilon {
			newPaid = p.AmountOwed
		}

		updated := make([]ParticipantState, len(tx.Participants))
		copy(updated, tx.Participants)
		for i := range updated {
			if updated[i].PersonID == req.PayerPersonID {
				updated[i].AmountPaid = newPaid
			}
		}

		plan.Entries = append(plan.Entries, PlannedEntry{
			TransactionID: tx.ID,
			AmountApplied: utils.RoundCents(pair.Amount),
			NewAmountPaid: newPaid,
			NewStatus:     DeriveStatus(updated),
		})
	}

	excess := utils.RoundCents(req.TotalAmount - sumApplied)
	if excess >= utils.CentEpsilon {
		plan.Excess = excess
	}
	return plan, nil
}

// PlanReversal computes the effect of deleting a payment: each allocation is
// subtracted from the payer participant's paid amount, clamped to the
// [0, owed] range, and statuses are rederived.
func PlanReversal(payerPersonID int, allocations []models.PaymentAllocation, txs map[int]*TransactionState) (*AllocationPlan, error) {
	plan := &AllocationPlan{}
	for _, alloc := range allocations {
		tx, ok := txs[alloc.TransactionID]
		if !ok {
			return nil, &NotFoundError{Resource: "transacao", ID: alloc.TransactionID}
		}
		p := tx.participant(payerPersonID)
		if p == nil {
			return nil, &NotFoundError{Resource: "participante", ID: alloc.TransactionID}
		}

		newPaid := utils.RoundCents(p.AmountPaid - alloc.AmountApplied)
		if newPaid < 0 {
			newPaid = 0
		}
		if newPaid > p.AmountOwed {
			newPaid = p.AmountOwed
		}

		updated := make([]ParticipantState, len(tx.Participants))
		copy(updated, tx.Participants)
		for i := range updated {
			if updated[i].PersonID == payerPersonID {
				updated[i].AmountPaid = newPaid
			}
		}

		plan.Entries = append(plan.Entries, PlannedEntry{
			TransactionID: tx.ID,
			AmountApplied: alloc.AmountApplied,
			NewAmountPaid: newPaid,
			NewStatus:     DeriveStatus(updated),
		})
	}
	return plan, nil
}
