package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
	"github.com/alissonfar/expense-hub-sub001/models"
)

// CreateNotification records a hub event. PersonID nil means the whole hub.
func CreateNotification(ctx context.Context, pool *pgxpool.Pool, n *models.Notification) error {
	query := `
		INSERT INTO notificacoes (hub_id, pessoa_id, mensagem, data_evento)
		VALUES ($1, $2, $3, $4)
		RETURNING id, criado_em`
	err := pool.QueryRow(ctx, query, n.HubID, n.PersonID, n.Message, n.EventDate).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar notificacao: %w", err)
	}
	return nil
}

// createNotificationTx is CreateNotification inside an open transaction, so
// payment notifications are committed (or rolled back) with the payment.
func createNotificationTx(ctx context.Context, tx pgx.Tx, hubID int, personID *int, message string, eventDate time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO notificacoes (hub_id, pessoa_id, mensagem, data_evento)
		VALUES ($1, $2, $3, $4)`, hubID, personID, message, eventDate)
	if err != nil {
		return fmt.Errorf("erro ao criar notificacao: %w", err)
	}
	return nil
}

// ListNotifications returns the notifications visible to a person: their own
// plus the hub-wide ones, newest first.
func ListNotifications(ctx context.Context, pool *pgxpool.Pool, hubID, personID int) ([]models.Notification, error) {
	query := `
		SELECT id, hub_id, pessoa_id, mensagem, lida, data_evento, criado_em
		FROM notificacoes
		WHERE hub_id = $1 AND (pessoa_id IS NULL OR pessoa_id = $2)
		ORDER BY criado_em DESC
		LIMIT 100`
	rows, err := pool.Query(ctx, query, hubID, personID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar notificacoes: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.HubID, &n.PersonID, &n.Message, &n.Read, &n.EventDate, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler notificacao: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead marks one notification as read. Scoped to the user's
// memberships so someone else's notification reads as not found.
func MarkNotificationRead(ctx context.Context, pool *pgxpool.Pool, id, userID int) error {
	result, err := pool.Exec(ctx, `
		UPDATE notificacoes SET lida = TRUE
		WHERE id = $1
		  AND hub_id IN (SELECT hub_id FROM pessoas WHERE usuario_id = $2 AND ativo = TRUE)
		  AND (pessoa_id IS NULL
		       OR pessoa_id IN (SELECT id FROM pessoas WHERE usuario_id = $2))`, id, userID)
	if err != nil {
		return fmt.Errorf("erro ao marcar notificacao como lida: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &reconcile.NotFoundError{Resource: "notificacao", ID: id}
	}
	return nil
}

// CreateDueNotifications generates one notification per participant with an
// open share on a transaction due today or earlier. Already-notified pairs
// (same person, same message, same event date) are not duplicated, so the
// daily job can rerun safely.
func CreateDueNotifications(ctx context.Context, pool *pgxpool.Pool, now time.Time) (int, error) {
	query := `
		SELECT t.id, t.hub_id, t.descricao, t.data_vencimento, tp.pessoa_id,
		       tp.valor_devido - tp.valor_pago
		FROM transacoes t
		JOIN transacao_participantes tp ON tp.transacao_id = t.id
		WHERE t.deletado = FALSE
		  AND t.data_vencimento IS NOT NULL
		  AND t.data_vencimento <= $1
		  AND (tp.valor_devido - tp.valor_pago) >= 0.01`
	rows, err := pool.Query(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("erro ao buscar transacoes vencidas: %w", err)
	}

	type due struct {
		hubID    int
		personID int
		message  string
		dueDate  time.Time
	}
	var dues []due
	for rows.Next() {
		var txID, hubID, personID int
		var desc string
		var dueDate time.Time
		var pending float64
		if err := rows.Scan(&txID, &hubID, &desc, &dueDate, &personID, &pending); err != nil {
			rows.Close()
			return 0, fmt.Errorf("erro ao ler transacao vencida: %w", err)
		}
		dues = append(dues, due{
			hubID:    hubID,
			personID: personID,
			message:  fmt.Sprintf("Vencimento: %s com R$ %.2f pendente", desc, pending),
			dueDate:  dueDate,
		})
	}
	rows.Close()
	if rows.Err() != nil {
		return 0, fmt.Errorf("erro ao percorrer transacoes vencidas: %w", rows.Err())
	}

	created := 0
	for _, d := range dues {
		tag, err := pool.Exec(ctx, `
			INSERT INTO notificacoes (hub_id, pessoa_id, mensagem, data_evento)
			SELECT $1, $2, $3, $4
			WHERE NOT EXISTS (
				SELECT 1 FROM notificacoes
				WHERE hub_id = $1 AND pessoa_id = $2 AND mensagem = $3 AND data_evento = $4
			)`, d.hubID, d.personID, d.message, d.dueDate)
		if err != nil {
			return created, fmt.Errorf("erro ao criar notificacao de vencimento: %w", err)
		}
		created += int(tag.RowsAffected())
	}
	return created, nil
}
