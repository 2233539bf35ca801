package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
	"github.com/alissonfar/expense-hub-sub001/models"
	"github.com/alissonfar/expense-hub-sub001/utils"
)

func TestCreateInstallmentSeries(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, member := newTestHub(t, pool)

	txs, err := database.CreateTransaction(ctx, pool, hub.ID, &owner.ID, &database.TransactionInput{
		Description:  "geladeira em 3x",
		TotalAmount:  100,
		Type:         models.TypeExpense,
		Date:         "2025-01-15",
		Installments: 3,
		Participants: []database.ParticipantInput{
			{PersonID: owner.ID, AmountOwed: 50},
			{PersonID: member.ID, AmountOwed: 50},
		},
	})
	if err != nil {
		t.Fatalf("erro ao criar parcelamento: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("esperava 3 parcelas, veio %d", len(txs))
	}

	var total float64
	group := txs[0].InstallmentGroupID
	for i, tx := range txs {
		total = utils.RoundCents(total + tx.TotalAmount)
		if tx.InstallmentGroupID == nil || group == nil || *tx.InstallmentGroupID != *group {
			t.Errorf("parcela %d fora do grupo", i+1)
		}
		if tx.InstallmentIndex == nil || *tx.InstallmentIndex != i+1 {
			t.Errorf("parcela %d com indice errado: %+v", i+1, tx.InstallmentIndex)
		}
		var owed float64
		for _, p := range tx.Participants {
			owed = utils.RoundCents(owed + p.AmountOwed)
		}
		if !utils.ApproxEqual(owed, tx.TotalAmount) {
			t.Errorf("parcela %d: participantes somam %v, valor %v", i+1, owed, tx.TotalAmount)
		}
	}
	// The rounding remainder folds into the last installment: series still
	// sums to the original total.
	if !utils.ApproxEqual(total, 100) {
		t.Errorf("parcelas somam %v, esperava 100", total)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)

	// Participant shares must reconcile to the expense total.
	_, err := database.CreateTransaction(ctx, pool, hub.ID, &owner.ID, &database.TransactionInput{
		Description: "soma errada",
		TotalAmount: 100,
		Type:        models.TypeExpense,
		Date:        "2025-01-15",
		Participants: []database.ParticipantInput{
			{PersonID: owner.ID, AmountOwed: 60},
		},
	})
	var verr *reconcile.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("esperava ValidationError, veio %v", err)
	}

	// Income entries carry no participants and are born settled.
	txs, err := database.CreateTransaction(ctx, pool, hub.ID, &owner.ID, &database.TransactionInput{
		Description: "salario",
		TotalAmount: 3000,
		Type:        models.TypeIncome,
		Date:        "2025-01-05",
	})
	if err != nil {
		t.Fatalf("erro ao criar receita: %v", err)
	}
	if txs[0].PaymentStatus != models.StatusFullyPaid {
		t.Errorf("receita nasceu %q, esperava FULLY_PAID", txs[0].PaymentStatus)
	}
}

func TestSoftDeleteHidesTransaction(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)
	tx := newExpense(t, pool, hub, owner, 25)

	if err := database.SoftDeleteTransaction(ctx, pool, tx.ID); err != nil {
		t.Fatalf("erro ao remover transacao: %v", err)
	}

	_, err := database.GetTransactionByID(ctx, pool, tx.ID)
	var nferr *reconcile.NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("transacao removida deveria sumir, veio %v", err)
	}

	pending, err := database.ListPendingBalances(ctx, pool, hub.ID, owner.ID, []int{tx.ID})
	if err != nil {
		t.Fatalf("erro ao listar pendencias: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("transacao removida ainda aparece nas pendencias: %+v", pending)
	}
}

func TestRecomputeAllStatusesRepairsDrift(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)
	tx := newExpense(t, pool, hub, owner, 70)

	// Corrupt the cached projection directly; the sweep must repair it from
	// the participant rows.
	if _, err := pool.Exec(ctx, `UPDATE transacoes SET status_pagamento = $1 WHERE id = $2`,
		models.StatusFullyPaid, tx.ID); err != nil {
		t.Fatalf("erro ao corromper status: %v", err)
	}

	fixed, err := database.RecomputeAllStatuses(ctx, pool)
	if err != nil {
		t.Fatalf("erro na varredura: %v", err)
	}
	if fixed < 1 {
		t.Errorf("varredura corrigiu %d transacoes, esperava pelo menos 1", fixed)
	}

	after, err := database.GetTransactionByID(ctx, pool, tx.ID)
	if err != nil {
		t.Fatalf("erro ao buscar transacao: %v", err)
	}
	if after.PaymentStatus != models.StatusPending {
		t.Errorf("status apos varredura = %q, esperava PENDING", after.PaymentStatus)
	}

	// The resolver never believed the corrupted cache in the first place.
	pending, err := database.ListPendingBalances(ctx, pool, hub.ID, owner.ID, []int{tx.ID})
	if err != nil {
		t.Fatalf("erro ao listar pendencias: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("resolver deveria ver a pendencia mesmo com cache sujo: %+v", pending)
	}
}

func TestDueNotificationsDeduplicate(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)

	due := time.Now().AddDate(0, 0, -1)
	if _, err := database.CreateTransaction(ctx, pool, hub.ID, &owner.ID, &database.TransactionInput{
		Description: "conta vencida",
		TotalAmount: 30,
		Type:        models.TypeExpense,
		Date:        due.Format("2006-01-02"),
		DueDate:     due.Format("2006-01-02"),
		Participants: []database.ParticipantInput{
			{PersonID: owner.ID, AmountOwed: 30},
		},
	}); err != nil {
		t.Fatalf("erro ao criar transacao vencida: %v", err)
	}

	first, err := database.CreateDueNotifications(ctx, pool, time.Now())
	if err != nil {
		t.Fatalf("erro no job de vencimentos: %v", err)
	}
	if first < 1 {
		t.Errorf("primeira rodada criou %d notificacoes, esperava pelo menos 1", first)
	}

	second, err := database.CreateDueNotifications(ctx, pool, time.Now())
	if err != nil {
		t.Fatalf("erro na segunda rodada: %v", err)
	}
	if second != 0 {
		t.Errorf("segunda rodada criou %d notificacoes, esperava 0", second)
	}
}
