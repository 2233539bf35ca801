package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
)

func PersonBalancesHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok {
			return
		}
		balances, err := database.GetPersonBalances(c.Request.Context(), pool, person.HubID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, balances)
	}
}

func MonthlySummaryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok {
			return
		}
		summary, err := database.GetMonthlySummary(c.Request.Context(), pool, person.HubID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func TagSummaryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok {
			return
		}
		summary, err := database.GetTagSummary(c.Request.Context(), pool, person.HubID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func SaveReportHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok || !requireWriter(c, person) {
			return
		}
		report, err := database.SaveReportSnapshot(c.Request.Context(), pool, person.HubID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, report)
	}
}

func ListReportsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok {
			return
		}
		reports, err := database.ListReports(c.Request.Context(), pool, person.HubID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reports)
	}
}
