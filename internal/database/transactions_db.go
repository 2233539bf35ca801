package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
	"github.com/alissonfar/expense-hub-sub001/models"
	"github.com/alissonfar/expense-hub-sub001/utils"
)

// ParticipantInput is one person share of a new expense.
type ParticipantInput struct {
	PersonID   int     `json:"pessoa_id"`
	AmountOwed float64 `json:"valor_devido"`
}

// TransactionInput is the payload for creating a transaction. When
// Installments > 1 the amount is divided into a series of transactions
// sharing one installment group id.
type TransactionInput struct {
	Description  string             `json:"descricao"`
	TotalAmount  float64            `json:"valor_total"`
	Type         string             `json:"tipo"`
	Date         string             `json:"data_transacao"`
	DueDate      string             `json:"data_vencimento"`
	Installments int                `json:"total_parcelas"`
	Participants []ParticipantInput `json:"participantes"`
	TagIDs       []int              `json:"tags"`
}

func validateTransactionInput(in *TransactionInput) (*reconcile.ValidationError, time.Time, *time.Time) {
	verr := &reconcile.ValidationError{}

	if in.Description == "" {
		verr.Problems = append(verr.Problems, reconcile.FieldProblem{Field: "descricao", Message: "descricao obrigatoria"})
	}
	if !utils.IsPositiveAmount(in.TotalAmount) {
		verr.Problems = append(verr.Problems, reconcile.FieldProblem{Field: "valor_total", Message: "valor total deve ser maior que zero"})
	}
	if in.Type != models.TypeExpense && in.Type != models.TypeIncome {
		verr.Problems = append(verr.Problems, reconcile.FieldProblem{Field: "tipo", Message: "tipo deve ser GASTO ou RECEITA"})
	}

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		verr.Problems = append(verr.Problems, reconcile.FieldProblem{Field: "data_transacao", Message: "data invalida, use AAAA-MM-DD"})
	}
	var dueDate *time.Time
	if in.DueDate != "" {
		d, err := time.Parse("2006-01-02", in.DueDate)
		if err != nil {
			verr.Problems = append(verr.Problems, reconcile.FieldProblem{Field: "data_vencimento", Message: "data invalida, use AAAA-MM-DD"})
		} else {
			dueDate = &d
		}
	}

	if in.Type == models.TypeExpense {
		if len(in.Participants) == 0 {
			verr.Problems = append(verr.Problems, reconcile.FieldProblem{Field: "participantes", Message: "gastos precisam de pelo menos um participante"})
		}
		var sum float64
		for _, p := range in.Participants {
			if !utils.IsPositiveAmount(p.AmountOwed) {
				verr.Problems = append(verr.Problems, reconcile.FieldProblem{Field: "valor_devido", Message: "valor devido deve ser maior que zero"})
			}
			sum += p.AmountOwed
		}
		if len(in.Participants) > 0 && !utils.ApproxEqual(utils.RoundCents(sum), utils.RoundCents(in.TotalAmount)) {
			verr.Problems = append(verr.Problems, reconcile.FieldProblem{Field: "participantes", Message: "soma dos valores devidos difere do valor total"})
		}
	} else if len(in.Participants) > 0 {
		verr.Problems = append(verr.Problems, reconcile.FieldProblem{Field: "participantes", Message: "receitas nao possuem participantes"})
	}

	return verr, date, dueDate
}

// CreateTransaction creates one transaction (or an installment series) with
// its participant rows, atomically. Expense shares must reconcile with the
// total at creation.
func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, hubID int, createdBy *int, in *TransactionInput) ([]models.Transaction, error) {
	verr, date, dueDate := validateTransactionInput(in)
	if len(verr.Problems) > 0 {
		return nil, verr
	}

	installments := in.Installments
	if installments < 1 {
		installments = 1
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transacao: %w", err)
	}
	defer tx.Rollback(ctx)

	var groupID *string
	if installments > 1 {
		g := uuid.NewString()
		groupID = &g
	}

	// Per-installment share, with the rounding remainder folded into the
	// last installment so the series still sums to the original total.
	perInstallment := utils.RoundCents(in.TotalAmount / float64(installments))
	lastInstallment := utils.RoundCents(in.TotalAmount - perInstallment*float64(installments-1))

	status := models.StatusPending
	if in.Type == models.TypeIncome {
		status = models.StatusFullyPaid
	}

	var created []models.Transaction
	for i := 1; i <= installments; i++ {
		amount := perInstallment
		if i == installments {
			amount = lastInstallment
		}
		txDate := date.AddDate(0, i-1, 0)
		var txDue *time.Time
		if dueDate != nil {
			d := dueDate.AddDate(0, i-1, 0)
			txDue = &d
		}

		record := models.Transaction{
			HubID:             hubID,
			Description:       in.Description,
			TotalAmount:       amount,
			Type:              in.Type,
			Date:              txDate,
			DueDate:           txDue,
			PaymentStatus:     status,
			CreatedByPersonID: createdBy,
		}
		if installments > 1 {
			idx := i
			total := installments
			record.InstallmentIndex = &idx
			record.InstallmentTotal = &total
			record.InstallmentGroupID = groupID
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO transacoes
				(hub_id, descricao, valor_total, tipo, data_transacao, data_vencimento,
				 status_pagamento, parcela_atual, total_parcelas, grupo_parcelamento, criado_por_pessoa_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, criado_em`,
			record.HubID, record.Description, record.TotalAmount, record.Type, record.Date, record.DueDate,
			record.PaymentStatus, record.InstallmentIndex, record.InstallmentTotal, record.InstallmentGroupID, createdBy).
			Scan(&record.ID, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("erro ao criar transacao: %w", err)
		}

		scale := amount / in.TotalAmount
		var allocated float64
		for j, p := range in.Participants {
			owed := utils.RoundCents(p.AmountOwed * scale)
			if j == len(in.Participants)-1 {
				owed = utils.RoundCents(amount - allocated)
			}
			allocated = utils.RoundCents(allocated + owed)

			var participant models.Participant
			err = tx.QueryRow(ctx, `
				INSERT INTO transacao_participantes (transacao_id, pessoa_id, valor_devido)
				VALUES ($1, $2, $3)
				RETURNING id`,
				record.ID, p.PersonID, owed).Scan(&participant.ID)
			if err != nil {
				return nil, fmt.Errorf("erro ao criar participante: %w", err)
			}
			participant.TransactionID = record.ID
			participant.PersonID = p.PersonID
			participant.AmountOwed = owed
			record.Participants = append(record.Participants, participant)
		}

		for _, tagID := range in.TagIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO transacao_tags (transacao_id, tag_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, record.ID, tagID); err != nil {
				return nil, fmt.Errorf("erro ao vincular tag: %w", err)
			}
		}

		created = append(created, record)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("erro ao confirmar criacao da transacao: %w", err)
	}
	return created, nil
}

// GetTransactionByID loads one transaction with participants and tags.
// Soft-deleted transactions behave as absent.
func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, id int) (*models.Transaction, error) {
	var t models.Transaction
	query := `
		SELECT id, hub_id, descricao, valor_total, tipo, data_transacao, data_vencimento,
		       status_pagamento, parcela_atual, total_parcelas, grupo_parcelamento,
		       criado_por_pessoa_id, deletado, criado_em
		FROM transacoes
		WHERE id = $1 AND deletado = FALSE`
	err := pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.HubID, &t.Description, &t.TotalAmount, &t.Type, &t.Date, &t.DueDate,
		&t.PaymentStatus, &t.InstallmentIndex, &t.InstallmentTotal, &t.InstallmentGroupID,
		&t.CreatedByPersonID, &t.Deleted, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &reconcile.NotFoundError{Resource: "transacao", ID: id}
		}
		return nil, fmt.Errorf("erro ao buscar transacao: %w", err)
	}

	rows, err := pool.Query(ctx, `
		SELECT id, transacao_id, pessoa_id, valor_devido, valor_pago
		FROM transacao_participantes WHERE transacao_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar participantes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.PersonID, &p.AmountOwed, &p.AmountPaid); err != nil {
			return nil, fmt.Errorf("erro ao ler participante: %w", err)
		}
		t.Participants = append(t.Participants, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("erro ao percorrer participantes: %w", rows.Err())
	}

	tagRows, err := pool.Query(ctx, `
		SELECT tg.id, tg.hub_id, tg.nome, tg.cor
		FROM tags tg JOIN transacao_tags tt ON tt.tag_id = tg.id
		WHERE tt.transacao_id = $1 ORDER BY tg.nome`, id)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag models.Tag
		if err := tagRows.Scan(&tag.ID, &tag.HubID, &tag.Name, &tag.Color); err != nil {
			return nil, fmt.Errorf("erro ao ler tag: %w", err)
		}
		t.Tags = append(t.Tags, tag)
	}
	return &t, tagRows.Err()
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
// PersonID restricts to transactions the person participates in; handlers set
// it for members with INDIVIDUAL access policy.
type TransactionFilter struct {
	Type     string
	Status   string
	TagID    int
	PersonID int
}

// ListTransactions lists the non-deleted transactions of a hub, newest first.
func ListTransactions(ctx context.Context, pool *pgxpool.Pool, hubID int, filter TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT DISTINCT t.id, t.hub_id, t.descricao, t.valor_total, t.tipo, t.data_transacao,
		       t.data_vencimento, t.status_pagamento, t.parcela_atual, t.total_parcelas,
		       t.grupo_parcelamento, t.criado_por_pessoa_id, t.deletado, t.criado_em
		FROM transacoes t
		LEFT JOIN transacao_participantes tp ON tp.transacao_id = t.id
		LEFT JOIN transacao_tags tt ON tt.transacao_id = t.id
		WHERE t.hub_id = $1 AND t.deletado = FALSE
		  AND ($2 = '' OR t.tipo = $2)
		  AND ($3 = '' OR t.status_pagamento = $3)
		  AND ($4 = 0 OR tt.tag_id = $4)
		  AND ($5 = 0 OR tp.pessoa_id = $5)
		ORDER BY t.data_transacao DESC, t.id DESC`
	rows, err := pool.Query(ctx, query, hubID, filter.Type, filter.Status, filter.TagID, filter.PersonID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar transacoes: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.HubID, &t.Description, &t.TotalAmount, &t.Type, &t.Date,
			&t.DueDate, &t.PaymentStatus, &t.InstallmentIndex, &t.InstallmentTotal,
			&t.InstallmentGroupID, &t.CreatedByPersonID, &t.Deleted, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler transacao: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTransactionDetails updates the editable fields of a transaction:
// description and due date. Amounts and participants are never edited in
// place; the correction path is delete-and-recreate.
func UpdateTransactionDetails(ctx context.Context, pool *pgxpool.Pool, id int, description string, dueDate *time.Time) error {
	result, err := pool.Exec(ctx, `
		UPDATE transacoes SET descricao = $1, data_vencimento = $2
		WHERE id = $3 AND deletado = FALSE`, description, dueDate, id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar transacao: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &reconcile.NotFoundError{Resource: "transacao", ID: id}
	}
	return nil
}

// SoftDeleteTransaction flags a transaction as deleted. Transactions with
// payments applied cannot be removed; the payments must be deleted first so
// money is never silently unaccounted for.
func SoftDeleteTransaction(ctx context.Context, pool *pgxpool.Pool, id int) error {
	var allocCount int
	err := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM pagamento_transacoes WHERE transacao_id = $1`, id).Scan(&allocCount)
	if err != nil {
		return fmt.Errorf("erro ao verificar pagamentos da transacao: %w", err)
	}
	if allocCount > 0 {
		return &reconcile.ValidationError{Problems: []reconcile.FieldProblem{
			{Field: "transacao_id", Message: "transacao possui pagamentos aplicados; exclua os pagamentos primeiro"},
		}}
	}

	result, err := pool.Exec(ctx, `
		UPDATE transacoes SET deletado = TRUE WHERE id = $1 AND deletado = FALSE`, id)
	if err != nil {
		return fmt.Errorf("erro ao excluir transacao: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &reconcile.NotFoundError{Resource: "transacao", ID: id}
	}
	return nil
}

// RecomputeAllStatuses repairs projection drift: every non-deleted expense
// has its cached status rederived from its participant rows. Run by the
// daily job.
func RecomputeAllStatuses(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	rows, err := pool.Query(ctx, `
		SELECT t.id, t.status_pagamento, tp.pessoa_id, tp.valor_devido, tp.valor_pago
		FROM transacoes t
		JOIN transacao_participantes tp ON tp.transacao_id = t.id
		WHERE t.deletado = FALSE AND t.tipo = $1
		ORDER BY t.id`, models.TypeExpense)
	if err != nil {
		return 0, fmt.Errorf("erro ao carregar participantes: %w", err)
	}
	defer rows.Close()

	type txAgg struct {
		status       string
		participants []reconcile.ParticipantState
	}
	agg := map[int]*txAgg{}
	var order []int
	for rows.Next() {
		var id int
		var status string
		var p reconcile.ParticipantState
		if err := rows.Scan(&id, &status, &p.PersonID, &p.AmountOwed, &p.AmountPaid); err != nil {
			return 0, fmt.Errorf("erro ao ler participante: %w", err)
		}
		a, ok := agg[id]
		if !ok {
			a = &txAgg{status: status}
			agg[id] = a
			order = append(order, id)
		}
		a.participants = append(a.participants, p)
	}
	if rows.Err() != nil {
		return 0, fmt.Errorf("erro ao percorrer participantes: %w", rows.Err())
	}

	fixed := 0
	for _, id := range order {
		a := agg[id]
		derived := reconcile.DeriveStatus(a.participants)
		if derived == a.status {
			continue
		}
		if _, err := pool.Exec(ctx, `UPDATE transacoes SET status_pagamento = $1 WHERE id = $2`, derived, id); err != nil {
			return fixed, fmt.Errorf("erro ao corrigir status da transacao %d: %w", id, err)
		}
		fixed++
	}
	return fixed, nil
}
