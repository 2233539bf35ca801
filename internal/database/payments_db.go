package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
	"github.com/alissonfar/expense-hub-sub001/models"
	"github.com/alissonfar/expense-hub-sub001/utils"
)

// wrapConflict converts Postgres serialization and deadlock failures into a
// ConflictError so the API can tell the caller to retry.
func wrapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return &reconcile.ConflictError{Err: err}
		}
	}
	return err
}

// lockTransactionStates loads the referenced transactions with all of their
// participant rows, locking the participant rows for the rest of the database
// transaction. Two concurrent payments touching the same transaction
// serialize here, so both validate against fresh pending amounts.
func lockTransactionStates(ctx context.Context, tx pgx.Tx, ids []int) (map[int]*reconcile.TransactionState, error) {
	states := make(map[int]*reconcile.TransactionState, len(ids))

	rows, err := tx.Query(ctx, `
		SELECT id, hub_id, tipo, descricao, deletado, data_vencimento, parcela_atual, total_parcelas
		FROM transacoes
		WHERE id = ANY($1::int[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar transacoes: %w", err)
	}
	for rows.Next() {
		var s reconcile.TransactionState
		if err := rows.Scan(&s.ID, &s.HubID, &s.Type, &s.Description, &s.Deleted,
			&s.DueDate, &s.InstallmentIndex, &s.InstallmentTotal); err != nil {
			rows.Close()
			return nil, fmt.Errorf("erro ao ler transacao: %w", err)
		}
		states[s.ID] = &s
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, fmt.Errorf("erro ao percorrer transacoes: %w", rows.Err())
	}

	pRows, err := tx.Query(ctx, `
		SELECT transacao_id, pessoa_id, valor_devido, valor_pago
		FROM transacao_participantes
		WHERE transacao_id = ANY($1::int[])
		ORDER BY id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("erro ao bloquear participantes: %w", wrapConflict(err))
	}
	defer pRows.Close()
	for pRows.Next() {
		var txID int
		var p reconcile.ParticipantState
		if err := pRows.Scan(&txID, &p.PersonID, &p.AmountOwed, &p.AmountPaid); err != nil {
			return nil, fmt.Errorf("erro ao ler participante: %w", err)
		}
		if s, ok := states[txID]; ok {
			s.Participants = append(s.Participants, p)
		}
	}
	return states, pRows.Err()
}

// applyPlan writes an allocation (or reversal) plan: participant paid
// amounts and the cached transaction statuses.
func applyPlan(ctx context.Context, tx pgx.Tx, personID int, plan *reconcile.AllocationPlan) error {
	for _, entry := range plan.Entries {
		_, err := tx.Exec(ctx, `
			UPDATE transacao_participantes SET valor_pago = $1
			WHERE transacao_id = $2 AND pessoa_id = $3`,
			entry.NewAmountPaid, entry.TransactionID, personID)
		if err != nil {
			return fmt.Errorf("erro ao atualizar participante: %w", wrapConflict(err))
		}
		_, err = tx.Exec(ctx, `
			UPDATE transacoes SET status_pagamento = $1 WHERE id = $2`,
			entry.NewStatus, entry.TransactionID)
		if err != nil {
			return fmt.Errorf("erro ao atualizar status da transacao: %w", wrapConflict(err))
		}
	}
	return nil
}

func parsePaymentDate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, &reconcile.ValidationError{Problems: []reconcile.FieldProblem{
			{Field: "data_pagamento", Message: "data invalida, use AAAA-MM-DD"},
		}}
	}
	return date, nil
}

// paymentSpec is the normalized form both payment shapes reduce to before
// entering the transactional workflow.
type paymentSpec struct {
	total        float64
	date         time.Time
	method       string
	notes        string
	process      bool
	createIncome *bool // nil: fall back to the hub configuration
	transactions []int
	buildPairs   func(states map[int]*reconcile.TransactionState) ([]reconcile.Pair, error)
}

// CreateSimplePayment applies a payment against a single transaction. The
// paid amount covers the payer's pending share first; anything beyond it is
// excess, handled with the hub defaults.
func CreateSimplePayment(ctx context.Context, pool *pgxpool.Pool, payer *models.Person, in *models.SimplePaymentInput) (*models.Payment, error) {
	date, err := parsePaymentDate(in.Date)
	if err != nil {
		return nil, err
	}
	spec := paymentSpec{
		total:        in.AmountPaid,
		date:         date,
		method:       in.Method,
		notes:        in.Notes,
		process:      true,
		transactions: []int{in.TransactionID},
		buildPairs: func(states map[int]*reconcile.TransactionState) ([]reconcile.Pair, error) {
			state, ok := states[in.TransactionID]
			if !ok || state.Deleted {
				return nil, &reconcile.NotFoundError{Resource: "transacao", ID: in.TransactionID}
			}
			applied := in.AmountPaid
			for _, p := range state.Participants {
				if p.PersonID == payer.ID {
					if pending := reconcile.Pending(p.AmountOwed, p.AmountPaid); applied > pending {
						applied = pending
					}
					break
				}
			}
			return []reconcile.Pair{{TransactionID: in.TransactionID, Amount: applied}}, nil
		},
	}
	return createPayment(ctx, pool, payer, spec)
}

// CreateCompositePayment applies a payment split across several transactions
// with explicit per-transaction amounts and excess flags.
func CreateCompositePayment(ctx context.Context, pool *pgxpool.Pool, payer *models.Person, in *models.CompositePaymentInput) (*models.Payment, error) {
	date, err := parsePaymentDate(in.Date)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(in.Allocations))
	pairs := make([]reconcile.Pair, len(in.Allocations))
	for i, a := range in.Allocations {
		ids[i] = a.TransactionID
		pairs[i] = reconcile.Pair{TransactionID: a.TransactionID, Amount: a.AmountApplied}
	}
	create := in.CreateExcessIncome
	spec := paymentSpec{
		total:        in.TotalAmount,
		date:         date,
		method:       in.Method,
		notes:        in.Notes,
		process:      in.ProcessExcess,
		createIncome: &create,
		transactions: ids,
		buildPairs: func(map[int]*reconcile.TransactionState) ([]reconcile.Pair, error) {
			return pairs, nil
		},
	}
	return createPayment(ctx, pool, payer, spec)
}

// createPayment is the single transactional workflow behind both payment
// shapes: lock, validate, allocate, distribute excess. Either every row is
// written and every status recomputed, or nothing is.
func createPayment(ctx context.Context, pool *pgxpool.Pool, payer *models.Person, spec paymentSpec) (*models.Payment, error) {
	if !models.ValidPaymentMethod(spec.method) {
		return nil, &reconcile.ValidationError{Problems: []reconcile.FieldProblem{
			{Field: "forma_pagamento", Message: "forma de pagamento invalida"},
		}}
	}
	if !utils.IsPositiveAmount(spec.total) {
		return nil, &reconcile.ValidationError{Problems: []reconcile.FieldProblem{
			{Field: "valor_total", Message: "valor total do pagamento deve ser maior que zero"},
		}}
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transacao: %w", err)
	}
	defer tx.Rollback(ctx)

	states, err := lockTransactionStates(ctx, tx, spec.transactions)
	if err != nil {
		return nil, err
	}
	pairs, err := spec.buildPairs(states)
	if err != nil {
		return nil, err
	}

	plan, err := reconcile.PlanAllocation(reconcile.AllocationRequest{
		PayerPersonID: payer.ID,
		PayerHubID:    payer.HubID,
		TotalAmount:   spec.total,
		Pairs:         pairs,
	}, states)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		HubID:       payer.HubID,
		PersonID:    payer.ID,
		TotalAmount: utils.RoundCents(spec.total),
		Date:        spec.date,
		Method:      spec.method,
		Notes:       spec.notes,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO pagamentos (hub_id, pessoa_id, valor_total, data_pagamento, forma_pagamento, observacoes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, criado_em`,
		payment.HubID, payment.PersonID, payment.TotalAmount, payment.Date, payment.Method, payment.Notes).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar pagamento: %w", wrapConflict(err))
	}

	if err := applyPlan(ctx, tx, payer.ID, plan); err != nil {
		return nil, err
	}

	for _, entry := range plan.Entries {
		var alloc models.PaymentAllocation
		err = tx.QueryRow(ctx, `
			INSERT INTO pagamento_transacoes (pagamento_id, transacao_id, valor_aplicado)
			VALUES ($1, $2, $3)
			RETURNING id`,
			payment.ID, entry.TransactionID, entry.AmountApplied).Scan(&alloc.ID)
		if err != nil {
			return nil, fmt.Errorf("erro ao criar alocacao: %w", wrapConflict(err))
		}
		alloc.PaymentID = payment.ID
		alloc.TransactionID = entry.TransactionID
		alloc.AmountApplied = entry.AmountApplied
		payment.Allocations = append(payment.Allocations, alloc)
	}

	if plan.Excess > 0 {
		cfg, err := getExcessConfigTx(ctx, tx, payer.HubID)
		if err != nil {
			return nil, err
		}
		createIncome := cfg.AutoCreateIncome
		if spec.createIncome != nil {
			createIncome = *spec.createIncome
		}
		decision := reconcile.DecideExcess(*cfg, spec.process, createIncome, plan.Excess, payer.Name, spec.date)

		if decision.Record {
			payment.HasExcess = true
			payment.ExcessAmount = plan.Excess
		}
		if decision.Materialize {
			// Excess income creation is part of the atomic unit: if this
			// insert fails the whole payment rolls back. Money is never
			// silently dropped.
			var incomeID int
			err = tx.QueryRow(ctx, `
				INSERT INTO transacoes (hub_id, descricao, valor_total, tipo, data_transacao, status_pagamento, criado_por_pessoa_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id`,
				payer.HubID, decision.Description, plan.Excess, models.TypeIncome,
				spec.date, models.StatusFullyPaid, payer.ID).Scan(&incomeID)
			if err != nil {
				return nil, fmt.Errorf("erro ao criar receita de excedente: %w", wrapConflict(err))
			}
			payment.ExcessIncomeID = &incomeID
		}
		if payment.HasExcess {
			_, err = tx.Exec(ctx, `
				UPDATE pagamentos SET tem_excedente = TRUE, valor_excedente = $1, receita_excedente_id = $2
				WHERE id = $3`,
				payment.ExcessAmount, payment.ExcessIncomeID, payment.ID)
			if err != nil {
				return nil, fmt.Errorf("erro ao registrar excedente: %w", wrapConflict(err))
			}
		}
	}

	msg := fmt.Sprintf("Pagamento de R$ %.2f registrado por %s", payment.TotalAmount, payer.Name)
	if err := createNotificationTx(ctx, tx, payer.HubID, nil, msg, spec.date); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("erro ao confirmar pagamento: %w", wrapConflict(err))
	}
	return payment, nil
}

// GetPaymentByID loads a payment with its allocation rows.
func GetPaymentByID(ctx context.Context, pool *pgxpool.Pool, id int) (*models.Payment, error) {
	var p models.Payment
	query := `
		SELECT id, hub_id, pessoa_id, valor_total, data_pagamento, forma_pagamento,
		       observacoes, tem_excedente, valor_excedente, receita_excedente_id, criado_em
		FROM pagamentos WHERE id = $1`
	err := pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.HubID, &p.PersonID, &p.TotalAmount, &p.Date, &p.Method,
		&p.Notes, &p.HasExcess, &p.ExcessAmount, &p.ExcessIncomeID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &reconcile.NotFoundError{Resource: "pagamento", ID: id}
		}
		return nil, fmt.Errorf("erro ao buscar pagamento: %w", err)
	}

	rows, err := pool.Query(ctx, `
		SELECT id, pagamento_id, transacao_id, valor_aplicado
		FROM pagamento_transacoes WHERE pagamento_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar alocacoes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a models.PaymentAllocation
		if err := rows.Scan(&a.ID, &a.PaymentID, &a.TransactionID, &a.AmountApplied); err != nil {
			return nil, fmt.Errorf("erro ao ler alocacao: %w", err)
		}
		p.Allocations = append(p.Allocations, a)
	}
	return &p, rows.Err()
}

// ListPayments lists a hub's payments, newest first, optionally narrowed to
// one payer.
func ListPayments(ctx context.Context, pool *pgxpool.Pool, hubID, personID int) ([]models.Payment, error) {
	query := `
		SELECT id, hub_id, pessoa_id, valor_total, data_pagamento, forma_pagamento,
		       observacoes, tem_excedente, valor_excedente, receita_excedente_id, criado_em
		FROM pagamentos
		WHERE hub_id = $1 AND ($2 = 0 OR pessoa_id = $2)
		ORDER BY data_pagamento DESC, id DESC`
	rows, err := pool.Query(ctx, query, hubID, personID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pagamentos: %w", err)
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.HubID, &p.PersonID, &p.TotalAmount, &p.Date, &p.Method,
			&p.Notes, &p.HasExcess, &p.ExcessAmount, &p.ExcessIncomeID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler pagamento: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePayment reverses a payment: every allocation is subtracted from its
// participant row, statuses are rederived, and the payment plus allocation
// rows are removed. A linked excess income transaction is soft-deleted with
// it, keeping the conservation invariant intact.
func DeletePayment(ctx context.Context, pool *pgxpool.Pool, id int) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transacao: %w", err)
	}
	defer tx.Rollback(ctx)

	var payment models.Payment
	err = tx.QueryRow(ctx, `
		SELECT id, pessoa_id, receita_excedente_id
		FROM pagamentos WHERE id = $1 FOR UPDATE`, id).
		Scan(&payment.ID, &payment.PersonID, &payment.ExcessIncomeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &reconcile.NotFoundError{Resource: "pagamento", ID: id}
		}
		return fmt.Errorf("erro ao buscar pagamento: %w", wrapConflict(err))
	}

	rows, err := tx.Query(ctx, `
		SELECT id, pagamento_id, transacao_id, valor_aplicado
		FROM pagamento_transacoes WHERE pagamento_id = $1 ORDER BY id`, id)
	if err != nil {
		return fmt.Errorf("erro ao buscar alocacoes: %w", err)
	}
	var allocations []models.PaymentAllocation
	var txIDs []int
	for rows.Next() {
		var a models.PaymentAllocation
		if err := rows.Scan(&a.ID, &a.PaymentID, &a.TransactionID, &a.AmountApplied); err != nil {
			rows.Close()
			return fmt.Errorf("erro ao ler alocacao: %w", err)
		}
		allocations = append(allocations, a)
		txIDs = append(txIDs, a.TransactionID)
	}
	rows.Close()
	if rows.Err() != nil {
		return fmt.Errorf("erro ao percorrer alocacoes: %w", rows.Err())
	}

	if len(allocations) > 0 {
		states, err := lockTransactionStates(ctx, tx, txIDs)
		if err != nil {
			return err
		}
		plan, err := reconcile.PlanReversal(payment.PersonID, allocations, states)
		if err != nil {
			return err
		}
		if err := applyPlan(ctx, tx, payment.PersonID, plan); err != nil {
			return err
		}
	}

	if payment.ExcessIncomeID != nil {
		_, err = tx.Exec(ctx, `UPDATE transacoes SET deletado = TRUE WHERE id = $1`, *payment.ExcessIncomeID)
		if err != nil {
			return fmt.Errorf("erro ao remover receita de excedente: %w", wrapConflict(err))
		}
	}

	// Allocation rows go with the payment (ON DELETE CASCADE). The excess
	// income FK must be cleared first.
	if _, err := tx.Exec(ctx, `UPDATE pagamentos SET receita_excedente_id = NULL WHERE id = $1`, id); err != nil {
		return fmt.Errorf("erro ao desvincular receita de excedente: %w", wrapConflict(err))
	}
	if _, err := tx.Exec(ctx, `DELETE FROM pagamentos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("erro ao excluir pagamento: %w", wrapConflict(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao confirmar exclusao do pagamento: %w", wrapConflict(err))
	}
	return nil
}
