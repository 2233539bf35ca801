package database

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/net/context"
)

type UserStat struct {
	TotalUsers   int `json:"total_usuarios"`
	GodUsers     int `json:"usuarios_deus"`
	RegularUsers int `json:"usuarios_comuns"`
}

type HubStat struct {
	TotalHubs         int `json:"total_hubs"`
	TotalTransactions int `json:"total_transacoes"`
	TotalPayments     int `json:"total_pagamentos"`
}

type MonthlyRegistrations struct {
	Month string `json:"mes"`
	Count int    `json:"quantidade"`
}

func GetUserStats(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats UserStat
		query := `
			SELECT
				(SELECT COUNT(*) FROM usuarios) AS total_usuarios,
				(SELECT COUNT(*) FROM usuarios WHERE is_god = true) AS usuarios_deus,
				(SELECT COUNT(*) FROM usuarios WHERE is_god = false) AS usuarios_comuns
		`

		err := pool.QueryRow(context.Background(), query).Scan(&stats.TotalUsers, &stats.GodUsers, &stats.RegularUsers)
		if err != nil {
			log.Printf("Error fetching user stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro ao obter estatisticas de usuarios"})
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

func GetHubStats(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats HubStat
		query := `
			SELECT
				(SELECT COUNT(*) FROM hubs) AS total_hubs,
				(SELECT COUNT(*) FROM transacoes WHERE deletado = false) AS total_transacoes,
				(SELECT COUNT(*) FROM pagamentos) AS total_pagamentos
		`

		err := pool.QueryRow(context.Background(), query).Scan(&stats.TotalHubs, &stats.TotalTransactions, &stats.TotalPayments)
		if err != nil {
			log.Printf("Error fetching hub stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro ao obter estatisticas de hubs"})
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

func GetRegistrationsByMonth(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := `
			SELECT
				TO_CHAR(criado_em, 'YYYY-MM') AS mes,
				COUNT(*)
			FROM usuarios
			GROUP BY mes
			ORDER BY mes ASC
		`

		rows, err := pool.Query(context.Background(), query)
		if err != nil {
			log.Printf("Error fetching registrations by month: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro ao obter registros por mes"})
			return
		}
		defer rows.Close()

		var result []MonthlyRegistrations
		for rows.Next() {
			var r MonthlyRegistrations
			if err := rows.Scan(&r.Month, &r.Count); err != nil {
				log.Printf("Error scanning registrations row: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro ao ler registros por mes"})
				return
			}
			result = append(result, r)
		}

		c.JSON(http.StatusOK, result)
	}
}
