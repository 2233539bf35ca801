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

func TestSimplePaymentLifecycle(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)
	tx := newExpense(t, pool, hub, owner, 100)

	payment, err := database.CreateSimplePayment(ctx, pool, owner, &models.SimplePaymentInput{
		PersonID:      owner.ID,
		TransactionID: tx.ID,
		AmountPaid:    100,
		Date:          time.Now().Format("2006-01-02"),
		Method:        models.MethodPix,
	})
	if err != nil {
		t.Fatalf("erro ao criar pagamento: %v", err)
	}
	if payment.HasExcess {
		t.Error("pagamento exato nao deveria ter excedente")
	}

	after, err := database.GetTransactionByID(ctx, pool, tx.ID)
	if err != nil {
		t.Fatalf("erro ao buscar transacao: %v", err)
	}
	if after.PaymentStatus != models.StatusFullyPaid {
		t.Errorf("status = %q, esperava FULLY_PAID", after.PaymentStatus)
	}

	pending, err := database.ListPendingBalances(ctx, pool, hub.ID, owner.ID, nil)
	if err != nil {
		t.Fatalf("erro ao listar pendencias: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("esperava zero pendencias, veio %+v", pending)
	}

	// Reversal: the participant goes back to zero and PENDING.
	if err := database.DeletePayment(ctx, pool, payment.ID); err != nil {
		t.Fatalf("erro ao excluir pagamento: %v", err)
	}
	reverted, err := database.GetTransactionByID(ctx, pool, tx.ID)
	if err != nil {
		t.Fatalf("erro ao buscar transacao apos estorno: %v", err)
	}
	if reverted.PaymentStatus != models.StatusPending {
		t.Errorf("status apos estorno = %q, esperava PENDING", reverted.PaymentStatus)
	}
	pending, err = database.ListPendingBalances(ctx, pool, hub.ID, owner.ID, nil)
	if err != nil {
		t.Fatalf("erro ao listar pendencias apos estorno: %v", err)
	}
	if len(pending) != 1 || !utils.ApproxEqual(pending[0].AmountPending, 100) {
		t.Errorf("pendencias apos estorno = %+v, esperava 100 em aberto", pending)
	}
}

func TestCompositePaymentWithExcessIncome(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, _, member := newTestHub(t, pool)
	t1 := newExpense(t, pool, hub, member, 100)
	t2 := newExpense(t, pool, hub, member, 50)

	payment, err := database.CreateCompositePayment(ctx, pool, member, &models.CompositePaymentInput{
		PersonID: member.ID,
		Allocations: []models.AllocationInput{
			{TransactionID: t1.ID, AmountApplied: 100},
			{TransactionID: t2.ID, AmountApplied: 20},
		},
		TotalAmount:        150,
		Date:               time.Now().Format("2006-01-02"),
		Method:             models.MethodTransfer,
		ProcessExcess:      true,
		CreateExcessIncome: true,
	})
	if err != nil {
		t.Fatalf("erro ao criar pagamento composto: %v", err)
	}

	if !payment.HasExcess || !utils.ApproxEqual(payment.ExcessAmount, 30) {
		t.Errorf("excedente = %+v, esperava 30", payment.ExcessAmount)
	}
	if payment.ExcessIncomeID == nil {
		t.Fatal("receita de excedente nao foi criada")
	}

	income, err := database.GetTransactionByID(ctx, pool, *payment.ExcessIncomeID)
	if err != nil {
		t.Fatalf("erro ao buscar receita de excedente: %v", err)
	}
	if income.Type != models.TypeIncome || !utils.ApproxEqual(income.TotalAmount, 30) {
		t.Errorf("receita de excedente = %+v, esperava RECEITA de 30", income)
	}

	a1, err := database.GetTransactionByID(ctx, pool, t1.ID)
	if err != nil {
		t.Fatalf("erro ao buscar t1: %v", err)
	}
	a2, err := database.GetTransactionByID(ctx, pool, t2.ID)
	if err != nil {
		t.Fatalf("erro ao buscar t2: %v", err)
	}
	if a1.PaymentStatus != models.StatusFullyPaid || a2.PaymentStatus != models.StatusPartiallyPaid {
		t.Errorf("status = %q/%q, esperava FULLY_PAID/PARTIALLY_PAID", a1.PaymentStatus, a2.PaymentStatus)
	}

	// Deleting the payment soft-deletes the linked income too.
	if err := database.DeletePayment(ctx, pool, payment.ID); err != nil {
		t.Fatalf("erro ao excluir pagamento: %v", err)
	}
	if _, err := database.GetTransactionByID(ctx, pool, *payment.ExcessIncomeID); err == nil {
		t.Error("receita de excedente deveria ter sido removida junto com o pagamento")
	}
}

func TestCompositePaymentBelowThresholdRecordsOnly(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)
	tx := newExpense(t, pool, hub, owner, 100)

	if err := database.UpsertExcessConfig(ctx, pool, &models.ExcessConfig{
		HubID:            hub.ID,
		AutoCreateIncome: true,
		MinimumAmount:    50,
	}); err != nil {
		t.Fatalf("erro ao configurar excedente: %v", err)
	}

	payment, err := database.CreateCompositePayment(ctx, pool, owner, &models.CompositePaymentInput{
		PersonID:           owner.ID,
		Allocations:        []models.AllocationInput{{TransactionID: tx.ID, AmountApplied: 100}},
		TotalAmount:        120,
		Date:               time.Now().Format("2006-01-02"),
		Method:             models.MethodCash,
		ProcessExcess:      true,
		CreateExcessIncome: true,
	})
	if err != nil {
		t.Fatalf("erro ao criar pagamento: %v", err)
	}
	if !payment.HasExcess || !utils.ApproxEqual(payment.ExcessAmount, 20) {
		t.Errorf("excedente = %v, esperava 20 registrado", payment.ExcessAmount)
	}
	if payment.ExcessIncomeID != nil {
		t.Error("excedente abaixo do minimo nao deveria virar receita")
	}
}

func TestOverAllocationLeavesStateUntouched(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)
	tx := newExpense(t, pool, hub, owner, 50)

	_, err := database.CreateSimplePayment(ctx, pool, owner, &models.SimplePaymentInput{
		PersonID:      owner.ID,
		TransactionID: tx.ID,
		AmountPaid:    30,
		Date:          time.Now().Format("2006-01-02"),
		Method:        models.MethodPix,
	})
	if err != nil {
		t.Fatalf("erro no pagamento parcial: %v", err)
	}

	_, err = database.CreateCompositePayment(ctx, pool, owner, &models.CompositePaymentInput{
		PersonID:    owner.ID,
		Allocations: []models.AllocationInput{{TransactionID: tx.ID, AmountApplied: 60}},
		TotalAmount: 60,
		Date:        time.Now().Format("2006-01-02"),
		Method:      models.MethodPix,
	})
	var verr *reconcile.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("esperava ValidationError na super-alocacao, veio %v", err)
	}

	pending, err := database.ListPendingBalances(ctx, pool, hub.ID, owner.ID, []int{tx.ID})
	if err != nil {
		t.Fatalf("erro ao listar pendencias: %v", err)
	}
	if len(pending) != 1 || !utils.ApproxEqual(pending[0].AmountPending, 20) {
		t.Errorf("estado mudou apos rejeicao: %+v", pending)
	}
}

func TestSimplePaymentClampsToPending(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)
	tx := newExpense(t, pool, hub, owner, 80)

	// Pays more than the share: the share is settled, the rest is excess.
	payment, err := database.CreateSimplePayment(ctx, pool, owner, &models.SimplePaymentInput{
		PersonID:      owner.ID,
		TransactionID: tx.ID,
		AmountPaid:    100,
		Date:          time.Now().Format("2006-01-02"),
		Method:        models.MethodPix,
	})
	if err != nil {
		t.Fatalf("erro ao criar pagamento: %v", err)
	}
	if !payment.HasExcess || !utils.ApproxEqual(payment.ExcessAmount, 20) {
		t.Errorf("excedente = %v, esperava 20", payment.ExcessAmount)
	}

	after, err := database.GetTransactionByID(ctx, pool, tx.ID)
	if err != nil {
		t.Fatalf("erro ao buscar transacao: %v", err)
	}
	if after.PaymentStatus != models.StatusFullyPaid {
		t.Errorf("status = %q, esperava FULLY_PAID", after.PaymentStatus)
	}
}

func TestDeleteTransactionBlockedByAllocations(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)
	tx := newExpense(t, pool, hub, owner, 40)

	if _, err := database.CreateSimplePayment(ctx, pool, owner, &models.SimplePaymentInput{
		PersonID:      owner.ID,
		TransactionID: tx.ID,
		AmountPaid:    40,
		Date:          time.Now().Format("2006-01-02"),
		Method:        models.MethodCash,
	}); err != nil {
		t.Fatalf("erro ao criar pagamento: %v", err)
	}

	if err := database.SoftDeleteTransaction(ctx, pool, tx.ID); err == nil {
		t.Error("transacao com pagamentos alocados nao deveria ser removivel")
	}
}
