package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/models"
	"github.com/alissonfar/expense-hub-sub001/utils"
)

func balanceFor(balances []database.PersonBalance, personID int) *database.PersonBalance {
	for i := range balances {
		if balances[i].PersonID == personID {
			return &balances[i]
		}
	}
	return nil
}

func TestPersonBalancesIgnoreDeletedTransactions(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, member := newTestHub(t, pool)

	kept := newExpense(t, pool, hub, owner, 80)
	doomed := newExpense(t, pool, hub, owner, 100)

	if err := database.SoftDeleteTransaction(ctx, pool, doomed.ID); err != nil {
		t.Fatalf("erro ao excluir transacao: %v", err)
	}

	balances, err := database.GetPersonBalances(ctx, pool, hub.ID)
	if err != nil {
		t.Fatalf("erro ao calcular saldos: %v", err)
	}

	ownerBalance := balanceFor(balances, owner.ID)
	if ownerBalance == nil {
		t.Fatalf("dono do hub nao apareceu nos saldos")
	}
	if !utils.ApproxEqual(ownerBalance.TotalOwed, 80) {
		t.Errorf("total devido = %.2f, esperava 80.00 (transacao %d excluida ainda contada)", ownerBalance.TotalOwed, doomed.ID)
	}
	if !utils.ApproxEqual(ownerBalance.TotalPending, 80) {
		t.Errorf("total pendente = %.2f, esperava 80.00", ownerBalance.TotalPending)
	}
	if ownerBalance.OpenCount != 1 {
		t.Errorf("transacoes pendentes = %d, esperava 1 (apenas %d)", ownerBalance.OpenCount, kept.ID)
	}

	// A member with no surviving participations still gets a zero row.
	memberBalance := balanceFor(balances, member.ID)
	if memberBalance == nil {
		t.Fatalf("membro sem transacoes sumiu dos saldos")
	}
	if !utils.ApproxEqual(memberBalance.TotalOwed, 0) || memberBalance.OpenCount != 0 {
		t.Errorf("membro sem transacoes deveria ter saldo zero, veio devido=%.2f abertas=%d",
			memberBalance.TotalOwed, memberBalance.OpenCount)
	}
}

func TestPersonBalancesAfterPayment(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)

	tx := newExpense(t, pool, hub, owner, 50)
	_, err := database.CreateSimplePayment(ctx, pool, owner, &models.SimplePaymentInput{
		PersonID:      owner.ID,
		TransactionID: tx.ID,
		AmountPaid:    20,
		Date:          time.Now().Format("2006-01-02"),
		Method:        models.MethodPix,
	})
	if err != nil {
		t.Fatalf("erro ao criar pagamento: %v", err)
	}

	balances, err := database.GetPersonBalances(ctx, pool, hub.ID)
	if err != nil {
		t.Fatalf("erro ao calcular saldos: %v", err)
	}
	b := balanceFor(balances, owner.ID)
	if b == nil {
		t.Fatalf("pagador nao apareceu nos saldos")
	}
	if !utils.ApproxEqual(b.TotalPaid, 20) || !utils.ApproxEqual(b.TotalPending, 30) {
		t.Errorf("saldos = pago %.2f / pendente %.2f, esperava 20.00 / 30.00", b.TotalPaid, b.TotalPending)
	}
}
