package database_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/models"
)

// testPool connects to TEST_DATABASE_URL and runs the migrations. Tests that
// need a database are skipped when the variable is unset, so the pure-core
// suite still runs anywhere.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL nao definido, pulando teste de banco")
	}

	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		t.Fatalf("erro ao conectar ao banco de teste: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.RunMigrations(context.Background(), pool); err != nil {
		t.Fatalf("erro ao executar migracoes: %v", err)
	}
	return pool
}

func uniqueEmail() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), gofakeit.Email())
}

// newTestHub creates a fresh user-owned hub plus a second member, giving each
// test an isolated tenant.
func newTestHub(t *testing.T, pool *pgxpool.Pool) (*models.Hub, *models.Person, *models.Person) {
	t.Helper()
	ctx := context.Background()

	owner := &models.User{
		Name:     gofakeit.Name(),
		Email:    uniqueEmail(),
		Password: "senha-de-teste",
	}
	if err := database.RegisterUser(ctx, pool, owner); err != nil {
		t.Fatalf("erro ao registrar usuario: %v", err)
	}

	hub := &models.Hub{Name: gofakeit.Company()}
	ownerPerson, err := database.CreateHub(ctx, pool, hub, owner)
	if err != nil {
		t.Fatalf("erro ao criar hub: %v", err)
	}

	member := &models.User{
		Name:     gofakeit.Name(),
		Email:    uniqueEmail(),
		Password: "senha-de-teste",
	}
	if err := database.RegisterUser(ctx, pool, member); err != nil {
		t.Fatalf("erro ao registrar segundo usuario: %v", err)
	}
	invite := &models.Invite{
		HubID:        hub.ID,
		Email:        member.Email,
		Role:         models.RoleCollaborator,
		AccessPolicy: models.AccessGlobal,
	}
	if err := database.CreateInvite(ctx, pool, invite); err != nil {
		t.Fatalf("erro ao criar convite: %v", err)
	}
	memberPerson, err := database.AcceptInvite(ctx, pool, invite.Code, member)
	if err != nil {
		t.Fatalf("erro ao aceitar convite: %v", err)
	}

	return hub, ownerPerson, memberPerson
}

// newExpense creates one expense owed entirely by the given person.
func newExpense(t *testing.T, pool *pgxpool.Pool, hub *models.Hub, person *models.Person, amount float64) models.Transaction {
	t.Helper()
	txs, err := database.CreateTransaction(context.Background(), pool, hub.ID, &person.ID, &database.TransactionInput{
		Description: gofakeit.Sentence(3),
		TotalAmount: amount,
		Type:        models.TypeExpense,
		Date:        time.Now().Format("2006-01-02"),
		Participants: []database.ParticipantInput{
			{PersonID: person.ID, AmountOwed: amount},
		},
	})
	if err != nil {
		t.Fatalf("erro ao criar transacao: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("esperava 1 transacao, veio %d", len(txs))
	}
	return txs[0]
}
