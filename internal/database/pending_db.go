package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
	"github.com/alissonfar/expense-hub-sub001/models"
)

// ListPendingBalances is the pending-balance resolver: every transaction of
// the hub where the person still owes money, optionally narrowed to specific
// transaction ids. It always computes from the participant rows, never from
// the cached transaction status, so a stale projection cannot hide or invent
// debt. No pending rows is a valid empty result.
func ListPendingBalances(ctx context.Context, pool *pgxpool.Pool, hubID, personID int, transactionIDs []int) ([]models.PendingBalance, error) {
	// The person must exist in the hub, even when inactive rows would make
	// the result empty anyway.
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM pessoas WHERE id = $1 AND hub_id = $2)`, personID, hubID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar pessoa: %w", err)
	}
	if !exists {
		return nil, &reconcile.NotFoundError{Resource: "pessoa", ID: personID}
	}

	// A nil slice would encode as SQL NULL and cardinality(NULL) is NULL,
	// which silently filters every row out.
	if transactionIDs == nil {
		transactionIDs = []int{}
	}

	query := `
		SELECT t.id, t.descricao, tp.valor_devido, tp.valor_pago,
		       t.data_vencimento, t.parcela_atual, t.total_parcelas
		FROM transacoes t
		JOIN transacao_participantes tp ON tp.transacao_id = t.id
		WHERE t.hub_id = $1
		  AND t.deletado = FALSE
		  AND tp.pessoa_id = $2
		  AND (tp.valor_devido - tp.valor_pago) >= 0.01
		  AND (cardinality($3::int[]) = 0 OR t.id = ANY($3::int[]))
		ORDER BY t.id`
	rows, err := pool.Query(ctx, query, hubID, personID, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar pendencias: %w", err)
	}
	defer rows.Close()

	out := []models.PendingBalance{}
	for rows.Next() {
		var b models.PendingBalance
		if err := rows.Scan(&b.TransactionID, &b.Description, &b.AmountOwed, &b.AmountPaid,
			&b.DueDate, &b.InstallmentIndex, &b.InstallmentTotal); err != nil {
			return nil, fmt.Errorf("erro ao ler pendencia: %w", err)
		}
		b.AmountPending = reconcile.Pending(b.AmountOwed, b.AmountPaid)
		out = append(out, b)
	}
	return out, rows.Err()
}
