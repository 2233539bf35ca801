package database_test

import (
	"context"
	"testing"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/models"
)

func TestCreateHubMakesOwner(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, owner, _ := newTestHub(t, pool)

	if owner.Role != models.RoleOwner || owner.AccessPolicy != models.AccessGlobal {
		t.Errorf("dono criado como %s/%s, esperava OWNER/GLOBAL", owner.Role, owner.AccessPolicy)
	}

	members, err := database.GetHubMembers(ctx, pool, hub.ID)
	if err != nil {
		t.Fatalf("erro ao listar membros: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("hub de teste tem %d membros, esperava 2", len(members))
	}
}

func TestInviteCannotBeReused(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, _, _ := newTestHub(t, pool)

	third := &models.User{Name: "Terceiro", Email: uniqueEmail(), Password: "senha-de-teste"}
	if err := database.RegisterUser(ctx, pool, third); err != nil {
		t.Fatalf("erro ao registrar usuario: %v", err)
	}

	invite := &models.Invite{
		HubID:        hub.ID,
		Email:        third.Email,
		Role:         models.RoleViewer,
		AccessPolicy: models.AccessIndividual,
	}
	if err := database.CreateInvite(ctx, pool, invite); err != nil {
		t.Fatalf("erro ao criar convite: %v", err)
	}

	person, err := database.AcceptInvite(ctx, pool, invite.Code, third)
	if err != nil {
		t.Fatalf("erro ao aceitar convite: %v", err)
	}
	if person.Role != models.RoleViewer || person.AccessPolicy != models.AccessIndividual {
		t.Errorf("pessoa criada como %s/%s, esperava VIEWER/INDIVIDUAL", person.Role, person.AccessPolicy)
	}

	if _, err := database.AcceptInvite(ctx, pool, invite.Code, third); err == nil {
		t.Error("convite usado nao deveria ser aceito de novo")
	}
}

func TestDeactivateAndReinvite(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	hub, _, member := newTestHub(t, pool)

	if err := database.DeactivatePerson(ctx, pool, member.ID); err != nil {
		t.Fatalf("erro ao desativar pessoa: %v", err)
	}

	if _, err := database.GetPersonByUserAndHub(ctx, pool, *member.UserID, hub.ID); err == nil {
		t.Error("pessoa desativada nao deveria resolver como membro ativo")
	}

	// Re-inviting reactivates the same pessoa row instead of duplicating it.
	user, err := database.GetUserByID(ctx, pool, *member.UserID)
	if err != nil {
		t.Fatalf("erro ao buscar usuario: %v", err)
	}
	invite := &models.Invite{
		HubID:        hub.ID,
		Email:        user.Email,
		Role:         models.RoleCollaborator,
		AccessPolicy: models.AccessGlobal,
	}
	if err := database.CreateInvite(ctx, pool, invite); err != nil {
		t.Fatalf("erro ao criar convite: %v", err)
	}
	back, err := database.AcceptInvite(ctx, pool, invite.Code, user)
	if err != nil {
		t.Fatalf("erro ao aceitar convite de volta: %v", err)
	}
	if back.ID != member.ID {
		t.Errorf("reconvite criou pessoa nova %d, esperava reativar %d", back.ID, member.ID)
	}
}
