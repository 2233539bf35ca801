package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/models"
	"github.com/alissonfar/expense-hub-sub001/utils"
)

func GetExcessConfigHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok {
			return
		}

		cfg, err := database.GetExcessConfig(c.Request.Context(), pool, person.HubID)
		if err != nil {
			respondError(c, err)
			return
		}
		if cfg.IncomeDescription == "" {
			cfg.IncomeDescription = models.DefaultExcessDescription
		}
		c.JSON(http.StatusOK, cfg)
	}
}

func UpdateExcessConfigHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok || !requireManager(c, person) {
			return
		}

		var req struct {
			AutoCreateIncome  bool    `json:"auto_criar_receita_excedente"`
			MinimumAmount     float64 `json:"valor_minimo_excedente"`
			IncomeDescription string  `json:"descricao_receita_excedente"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "payload invalido"})
			return
		}
		if req.MinimumAmount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "valor_minimo_excedente nao pode ser negativo"})
			return
		}

		cfg := &models.ExcessConfig{
			HubID:             person.HubID,
			AutoCreateIncome:  req.AutoCreateIncome,
			MinimumAmount:     utils.RoundCents(req.MinimumAmount),
			IncomeDescription: strings.TrimSpace(req.IncomeDescription),
		}
		if err := database.UpsertExcessConfig(c.Request.Context(), pool, cfg); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}
