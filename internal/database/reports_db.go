package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/models"
	"github.com/alissonfar/expense-hub-sub001/utils"
)

// PersonBalance is one row of the per-person balance report.
type PersonBalance struct {
	PersonID     int     `json:"pessoa_id"`
	Name         string  `json:"nome"`
	TotalOwed    float64 `json:"total_devido"`
	TotalPaid    float64 `json:"total_pago"`
	TotalPending float64 `json:"total_pendente"`
	OpenCount    int     `json:"transacoes_pendentes"`
}

// GetPersonBalances aggregates owed/paid/pending per active hub member,
// computed from participant rows.
func GetPersonBalances(ctx context.Context, pool *pgxpool.Pool, hubID int) ([]PersonBalance, error) {
	query := `
		SELECT p.id, p.nome,
		       COALESCE(SUM(tp.valor_devido), 0),
		       COALESCE(SUM(tp.valor_pago), 0),
		       COALESCE(SUM(CASE WHEN tp.valor_devido - tp.valor_pago >= 0.01 THEN 1 ELSE 0 END), 0)
		FROM pessoas p
		LEFT JOIN (
			transacao_participantes tp
			JOIN transacoes t ON t.id = tp.transacao_id AND t.deletado = FALSE
		) ON tp.pessoa_id = p.id
		WHERE p.hub_id = $1 AND p.ativo = TRUE
		GROUP BY p.id, p.nome
		ORDER BY p.nome`
	rows, err := pool.Query(ctx, query, hubID)
	if err != nil {
		return nil, fmt.Errorf("erro ao calcular saldos: %w", err)
	}
	defer rows.Close()

	var out []PersonBalance
	for rows.Next() {
		var b PersonBalance
		if err := rows.Scan(&b.PersonID, &b.Name, &b.TotalOwed, &b.TotalPaid, &b.OpenCount); err != nil {
			return nil, fmt.Errorf("erro ao ler saldo: %w", err)
		}
		b.TotalPending = utils.RoundCents(b.TotalOwed - b.TotalPaid)
		if b.TotalPending < 0 {
			b.TotalPending = 0
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// MonthlySummary is one month of the income/expense summary.
type MonthlySummary struct {
	Month        string  `json:"mes"`
	TotalExpense float64 `json:"total_gastos"`
	TotalIncome  float64 `json:"total_receitas"`
}

// GetMonthlySummary totals GASTO and RECEITA per month for the current year.
func GetMonthlySummary(ctx context.Context, pool *pgxpool.Pool, hubID int) ([]MonthlySummary, error) {
	query := `
		SELECT TO_CHAR(data_transacao, 'YYYY-MM') AS mes,
		       COALESCE(SUM(CASE WHEN tipo = 'GASTO' THEN valor_total ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN tipo = 'RECEITA' THEN valor_total ELSE 0 END), 0)
		FROM transacoes
		WHERE hub_id = $1 AND deletado = FALSE
		  AND DATE_PART('year', data_transacao) = DATE_PART('year', CURRENT_DATE)
		GROUP BY mes
		ORDER BY mes`
	rows, err := pool.Query(ctx, query, hubID)
	if err != nil {
		return nil, fmt.Errorf("erro ao calcular resumo mensal: %w", err)
	}
	defer rows.Close()

	var out []MonthlySummary
	for rows.Next() {
		var m MonthlySummary
		if err := rows.Scan(&m.Month, &m.TotalExpense, &m.TotalIncome); err != nil {
			return nil, fmt.Errorf("erro ao ler resumo mensal: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// TagSummary is the spend total for one tag.
type TagSummary struct {
	TagID int     `json:"tag_id"`
	Name  string  `json:"nome"`
	Total float64 `json:"total"`
}

// GetTagSummary totals expense amounts per tag.
func GetTagSummary(ctx context.Context, pool *pgxpool.Pool, hubID int) ([]TagSummary, error) {
	query := `
		SELECT tg.id, tg.nome, COALESCE(SUM(t.valor_total), 0)
		FROM tags tg
		LEFT JOIN transacao_tags tt ON tt.tag_id = tg.id
		LEFT JOIN transacoes t ON t.id = tt.transacao_id AND t.deletado = FALSE AND t.tipo = 'GASTO'
		WHERE tg.hub_id = $1
		GROUP BY tg.id, tg.nome
		ORDER BY tg.nome`
	rows, err := pool.Query(ctx, query, hubID)
	if err != nil {
		return nil, fmt.Errorf("erro ao calcular gastos por tag: %w", err)
	}
	defer rows.Close()

	var out []TagSummary
	for rows.Next() {
		var s TagSummary
		if err := rows.Scan(&s.TagID, &s.Name, &s.Total); err != nil {
			return nil, fmt.Errorf("erro ao ler gasto por tag: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SaveReportSnapshot persists the current aggregates of a hub as a JSONB
// snapshot, so the frontend can show "as of" views without recomputing.
func SaveReportSnapshot(ctx context.Context, pool *pgxpool.Pool, hubID int) (*models.Report, error) {
	balances, err := GetPersonBalances(ctx, pool, hubID)
	if err != nil {
		return nil, err
	}
	summary, err := GetMonthlySummary(ctx, pool, hubID)
	if err != nil {
		return nil, err
	}
	tags, err := GetTagSummary(ctx, pool, hubID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"saldos":         balances,
		"resumo_mensal":  summary,
		"gastos_por_tag": tags,
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao montar snapshot do relatorio: %w", err)
	}

	report := &models.Report{HubID: hubID, Data: string(payload)}
	err = pool.QueryRow(ctx, `
		INSERT INTO relatorios (hub_id, dados) VALUES ($1, $2)
		RETURNING id, gerado_em`, hubID, payload).Scan(&report.ID, &report.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao salvar relatorio: %w", err)
	}
	return report, nil
}

// ListReports lists a hub's stored snapshots, newest first.
func ListReports(ctx context.Context, pool *pgxpool.Pool, hubID int) ([]models.Report, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, hub_id, dados, gerado_em FROM relatorios
		WHERE hub_id = $1 ORDER BY gerado_em DESC LIMIT 50`, hubID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar relatorios: %w", err)
	}
	defer rows.Close()

	var out []models.Report
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.HubID, &r.Data, &r.GeneratedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler relatorio: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
