package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
	"github.com/alissonfar/expense-hub-sub001/models"
)

// CreateHub creates a hub and enrolls the creator as OWNER with GLOBAL
// access.
func CreateHub(ctx context.Context, pool *pgxpool.Pool, hub *models.Hub, owner *models.User) (*models.Person, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transacao: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `INSERT INTO hubs (nome) VALUES ($1) RETURNING id, criado_em`, hub.Name).
		Scan(&hub.ID, &hub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar hub: %w", err)
	}

	person := &models.Person{
		HubID:        hub.ID,
		UserID:       &owner.ID,
		Name:         owner.Name,
		Email:        owner.Email,
		Role:         models.RoleOwner,
		AccessPolicy: models.AccessGlobal,
		Active:       true,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO pessoas (hub_id, usuario_id, nome, email, papel, politica_acesso)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, criado_em`,
		person.HubID, owner.ID, person.Name, person.Email, person.Role, person.AccessPolicy).
		Scan(&person.ID, &person.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao registrar dono do hub: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("erro ao confirmar criacao do hub: %w", err)
	}
	return person, nil
}

// GetHubsByUserID lists the hubs where the user has an active membership.
func GetHubsByUserID(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Hub, error) {
	query := `
		SELECT h.id, h.nome, h.criado_em
		FROM hubs h
		JOIN pessoas p ON p.hub_id = h.id
		WHERE p.usuario_id = $1 AND p.ativo = TRUE
		ORDER BY h.id`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar hubs: %w", err)
	}
	defer rows.Close()

	var hubs []models.Hub
	for rows.Next() {
		var h models.Hub
		if err := rows.Scan(&h.ID, &h.Name, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler hub: %w", err)
		}
		hubs = append(hubs, h)
	}
	return hubs, rows.Err()
}

// GetPersonByUserAndHub resolves the caller's membership in a hub.
func GetPersonByUserAndHub(ctx context.Context, pool *pgxpool.Pool, userID, hubID int) (*models.Person, error) {
	var p models.Person
	query := `
		SELECT id, hub_id, usuario_id, nome, email, papel, politica_acesso, ativo, criado_em
		FROM pessoas
		WHERE usuario_id = $1 AND hub_id = $2 AND ativo = TRUE`
	err := pool.QueryRow(ctx, query, userID, hubID).Scan(
		&p.ID, &p.HubID, &p.UserID, &p.Name, &p.Email, &p.Role, &p.AccessPolicy, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &reconcile.NotFoundError{Resource: "pessoa", ID: userID}
		}
		return nil, fmt.Errorf("erro ao buscar pessoa: %w", err)
	}
	return &p, nil
}

// GetPersonByID loads a member row, active or not.
func GetPersonByID(ctx context.Context, pool *pgxpool.Pool, personID int) (*models.Person, error) {
	var p models.Person
	query := `
		SELECT id, hub_id, usuario_id, nome, email, papel, politica_acesso, ativo, criado_em
		FROM pessoas WHERE id = $1`
	err := pool.QueryRow(ctx, query, personID).Scan(
		&p.ID, &p.HubID, &p.UserID, &p.Name, &p.Email, &p.Role, &p.AccessPolicy, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &reconcile.NotFoundError{Resource: "pessoa", ID: personID}
		}
		return nil, fmt.Errorf("erro ao buscar pessoa: %w", err)
	}
	return &p, nil
}

// GetHubMembers lists every member of a hub, inactive ones included so the
// frontend can show history.
func GetHubMembers(ctx context.Context, pool *pgxpool.Pool, hubID int) ([]models.Person, error) {
	query := `
		SELECT id, hub_id, usuario_id, nome, email, papel, politica_acesso, ativo, criado_em
		FROM pessoas WHERE hub_id = $1 ORDER BY id`
	rows, err := pool.Query(ctx, query, hubID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar membros do hub: %w", err)
	}
	defer rows.Close()

	var members []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.HubID, &p.UserID, &p.Name, &p.Email, &p.Role, &p.AccessPolicy, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler membro: %w", err)
		}
		members = append(members, p)
	}
	return members, rows.Err()
}

// CreateInvite issues an invitation code for an email address.
func CreateInvite(ctx context.Context, pool *pgxpool.Pool, invite *models.Invite) error {
	if !models.ValidRole(invite.Role) {
		invite.Role = models.RoleCollaborator
	}
	if !models.ValidAccessPolicy(invite.AccessPolicy) {
		invite.AccessPolicy = models.AccessIndividual
	}
	invite.Code = uuid.NewString()

	query := `
		INSERT INTO convites (hub_id, email, papel, politica_acesso, codigo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, criado_em`
	err := pool.QueryRow(ctx, query, invite.HubID, invite.Email, invite.Role, invite.AccessPolicy, invite.Code).
		Scan(&invite.ID, &invite.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar convite: %w", err)
	}
	return nil
}

// AcceptInvite consumes an invitation code and creates the Person row for the
// accepting user. A person rejoining a hub reactivates the old row instead of
// duplicating it.
func AcceptInvite(ctx context.Context, pool *pgxpool.Pool, code string, user *models.User) (*models.Person, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transacao: %w", err)
	}
	defer tx.Rollback(ctx)

	var invite models.Invite
	err = tx.QueryRow(ctx, `
		SELECT id, hub_id, email, papel, politica_acesso, usado
		FROM convites WHERE codigo = $1 FOR UPDATE`, code).
		Scan(&invite.ID, &invite.HubID, &invite.Email, &invite.Role, &invite.AccessPolicy, &invite.Used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &reconcile.NotFoundError{Resource: "convite", ID: 0}
		}
		return nil, fmt.Errorf("erro ao buscar convite: %w", err)
	}
	if invite.Used {
		return nil, &reconcile.ValidationError{Problems: []reconcile.FieldProblem{
			{Field: "codigo", Message: "convite ja utilizado"},
		}}
	}

	person := &models.Person{
		HubID:        invite.HubID,
		UserID:       &user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         invite.Role,
		AccessPolicy: invite.AccessPolicy,
		Active:       true,
	}
	err = tx.QueryRow(ctx, `SELECT id FROM pessoas WHERE hub_id = $1 AND usuario_id = $2`,
		invite.HubID, user.ID).Scan(&person.ID)
	switch {
	case err == nil:
		_, err = tx.Exec(ctx, `
			UPDATE pessoas SET ativo = TRUE, papel = $1, politica_acesso = $2 WHERE id = $3`,
			invite.Role, invite.AccessPolicy, person.ID)
		if err != nil {
			return nil, fmt.Errorf("erro ao reativar pessoa: %w", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx, `
			INSERT INTO pessoas (hub_id, usuario_id, nome, email, papel, politica_acesso)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, criado_em`,
			invite.HubID, user.ID, person.Name, person.Email, invite.Role, invite.AccessPolicy).
			Scan(&person.ID, &person.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("erro ao criar pessoa: %w", err)
		}
	default:
		return nil, fmt.Errorf("erro ao verificar pessoa existente: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE convites SET usado = TRUE WHERE id = $1`, invite.ID); err != nil {
		return nil, fmt.Errorf("erro ao marcar convite como usado: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("erro ao confirmar aceite do convite: %w", err)
	}
	return person, nil
}

// UpdatePersonRole changes a member's role and access policy.
func UpdatePersonRole(ctx context.Context, pool *pgxpool.Pool, personID int, role, policy string) error {
	if !models.ValidRole(role) {
		return &reconcile.ValidationError{Problems: []reconcile.FieldProblem{
			{Field: "papel", Message: "papel invalido"},
		}}
	}
	if !models.ValidAccessPolicy(policy) {
		return &reconcile.ValidationError{Problems: []reconcile.FieldProblem{
			{Field: "politica_acesso", Message: "politica de acesso invalida"},
		}}
	}
	result, err := pool.Exec(ctx, `UPDATE pessoas SET papel = $1, politica_acesso = $2 WHERE id = $3 AND ativo = TRUE`,
		role, policy, personID)
	if err != nil {
		return fmt.Errorf("erro ao atualizar papel: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &reconcile.NotFoundError{Resource: "pessoa", ID: personID}
	}
	return nil
}

// DeactivatePerson soft-deletes a member. Participant and payment history
// rows stay untouched.
func DeactivatePerson(ctx context.Context, pool *pgxpool.Pool, personID int) error {
	result, err := pool.Exec(ctx, `UPDATE pessoas SET ativo = FALSE WHERE id = $1 AND ativo = TRUE`, personID)
	if err != nil {
		return fmt.Errorf("erro ao desativar pessoa: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &reconcile.NotFoundError{Resource: "pessoa", ID: personID}
	}
	return nil
}
