package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
	"github.com/alissonfar/expense-hub-sub001/models"
)

// CreateTag creates a hub tag. Names are unique per hub.
func CreateTag(ctx context.Context, pool *pgxpool.Pool, tag *models.Tag) error {
	if tag.Name == "" {
		return &reconcile.ValidationError{Problems: []reconcile.FieldProblem{
			{Field: "nome", Message: "nome da tag obrigatorio"},
		}}
	}
	query := `INSERT INTO tags (hub_id, nome, cor) VALUES ($1, $2, $3) RETURNING id`
	if err := pool.QueryRow(ctx, query, tag.HubID, tag.Name, tag.Color).Scan(&tag.ID); err != nil {
		return fmt.Errorf("erro ao criar tag: %w", err)
	}
	return nil
}

// ListTags lists a hub's tags.
func ListTags(ctx context.Context, pool *pgxpool.Pool, hubID int) ([]models.Tag, error) {
	rows, err := pool.Query(ctx, `SELECT id, hub_id, nome, cor FROM tags WHERE hub_id = $1 ORDER BY nome`, hubID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar tags: %w", err)
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.HubID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("erro ao ler tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTag renames or recolors a tag. Scoped to the hub so a tag id from
// another hub is just not found.
func UpdateTag(ctx context.Context, pool *pgxpool.Pool, tag *models.Tag) error {
	result, err := pool.Exec(ctx, `UPDATE tags SET nome = $1, cor = $2 WHERE id = $3 AND hub_id = $4`,
		tag.Name, tag.Color, tag.ID, tag.HubID)
	if err != nil {
		return fmt.Errorf("erro ao atualizar tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &reconcile.NotFoundError{Resource: "tag", ID: tag.ID}
	}
	return nil
}

// DeleteTag removes a hub's tag and its transaction links.
func DeleteTag(ctx context.Context, pool *pgxpool.Pool, hubID, id int) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transacao: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM transacao_tags
		WHERE tag_id = $1 AND tag_id IN (SELECT id FROM tags WHERE hub_id = $2)`, id, hubID); err != nil {
		return fmt.Errorf("erro ao remover vinculos da tag: %w", err)
	}
	result, err := tx.Exec(ctx, `DELETE FROM tags WHERE id = $1 AND hub_id = $2`, id, hubID)
	if err != nil {
		return fmt.Errorf("erro ao excluir tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &reconcile.NotFoundError{Resource: "tag", ID: id}
	}
	return tx.Commit(ctx)
}

// TagTransaction links a tag to a transaction of the same hub.
func TagTransaction(ctx context.Context, pool *pgxpool.Pool, transactionID, tagID int) error {
	result, err := pool.Exec(ctx, `
		INSERT INTO transacao_tags (transacao_id, tag_id)
		SELECT t.id, tg.id
		FROM transacoes t JOIN tags tg ON tg.hub_id = t.hub_id
		WHERE t.id = $1 AND tg.id = $2 AND t.deletado = FALSE
		ON CONFLICT DO NOTHING`, transactionID, tagID)
	if err != nil {
		return fmt.Errorf("erro ao vincular tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Either the pair is already linked (fine) or one side is missing.
		var linked bool
		err := pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM transacao_tags WHERE transacao_id = $1 AND tag_id = $2)`,
			transactionID, tagID).Scan(&linked)
		if err != nil {
			return fmt.Errorf("erro ao verificar vinculo da tag: %w", err)
		}
		if !linked {
			return &reconcile.NotFoundError{Resource: "transacao ou tag", ID: transactionID}
		}
	}
	return nil
}
