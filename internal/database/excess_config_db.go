package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
	"github.com/alissonfar/expense-hub-sub001/models"
	"github.com/alissonfar/expense-hub-sub001/utils"
)

const excessConfigColumns = `id, hub_id, auto_criar_receita_excedente, valor_minimo_excedente, descricao_receita_excedente`

// GetExcessConfig returns the hub's excess policy, or the zero-value policy
// when the hub never configured one.
func GetExcessConfig(ctx context.Context, pool *pgxpool.Pool, hubID int) (*models.ExcessConfig, error) {
	var cfg models.ExcessConfig
	err := pool.QueryRow(ctx, `SELECT `+excessConfigColumns+` FROM configuracoes_excedente WHERE hub_id = $1`, hubID).
		Scan(&cfg.ID, &cfg.HubID, &cfg.AutoCreateIncome, &cfg.MinimumAmount, &cfg.IncomeDescription)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.ExcessConfig{HubID: hubID}, nil
		}
		return nil, fmt.Errorf("erro ao buscar configuracao de excedente: %w", err)
	}
	return &cfg, nil
}

// getExcessConfigTx is GetExcessConfig inside an open database transaction,
// used by the payment workflow so the policy read shares its atomicity.
func getExcessConfigTx(ctx context.Context, tx pgx.Tx, hubID int) (*models.ExcessConfig, error) {
	var cfg models.ExcessConfig
	err := tx.QueryRow(ctx, `SELECT `+excessConfigColumns+` FROM configuracoes_excedente WHERE hub_id = $1`, hubID).
		Scan(&cfg.ID, &cfg.HubID, &cfg.AutoCreateIncome, &cfg.MinimumAmount, &cfg.IncomeDescription)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.ExcessConfig{HubID: hubID}, nil
		}
		return nil, fmt.Errorf("erro ao buscar configuracao de excedente: %w", err)
	}
	return &cfg, nil
}

// UpsertExcessConfig creates or replaces the hub's excess policy.
func UpsertExcessConfig(ctx context.Context, pool *pgxpool.Pool, cfg *models.ExcessConfig) error {
	if cfg.MinimumAmount < 0 {
		return &reconcile.ValidationError{Problems: []reconcile.FieldProblem{
			{Field: "valor_minimo_excedente", Message: "valor minimo nao pode ser negativo"},
		}}
	}
	cfg.MinimumAmount = utils.RoundCents(cfg.MinimumAmount)

	query := `
		INSERT INTO configuracoes_excedente
			(hub_id, auto_criar_receita_excedente, valor_minimo_excedente, descricao_receita_excedente)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hub_id) DO UPDATE SET
			auto_criar_receita_excedente = EXCLUDED.auto_criar_receita_excedente,
			valor_minimo_excedente = EXCLUDED.valor_minimo_excedente,
			descricao_receita_excedente = EXCLUDED.descricao_receita_excedente
		RETURNING id`
	err := pool.QueryRow(ctx, query, cfg.HubID, cfg.AutoCreateIncome, cfg.MinimumAmount, cfg.IncomeDescription).
		Scan(&cfg.ID)
	if err != nil {
		return fmt.Errorf("erro ao salvar configuracao de excedente: %w", err)
	}
	return nil
}
