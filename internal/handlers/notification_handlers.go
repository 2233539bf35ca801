package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/internal/middleware"
)

// ListNotificationsHandler lists the caller's notifications in one hub
// (hub_id query param): their own plus the hub-wide ones.
func ListNotificationsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		hubID, err := strconv.Atoi(c.Query("hub_id"))
		if err != nil || hubID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "hub_id obrigatorio"})
			return
		}

		person, err := database.GetPersonByUserAndHub(c.Request.Context(), pool, middleware.GetUserID(c), hubID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"erro": "voce nao participa deste hub"})
			return
		}

		notifications, err := database.ListNotifications(c.Request.Context(), pool, hubID, person.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, notifications)
	}
}

func MarkNotificationReadHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := database.MarkNotificationRead(c.Request.Context(), pool, id, middleware.GetUserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensagem": "notificacao lida"})
	}
}
