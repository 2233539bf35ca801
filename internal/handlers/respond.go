package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/internal/middleware"
	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
	"github.com/alissonfar/expense-hub-sub001/models"
)

// respondError maps domain error types to HTTP responses. Anything not
// recognized is a 500 with a generic message; the real error goes to the log.
func respondError(c *gin.Context, err error) {
	var verr *reconcile.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "dados invalidos", "campos": verr.Problems})
		return
	}

	var nferr *reconcile.NotFoundError
	if errors.As(err, &nferr) {
		c.JSON(http.StatusNotFound, gin.H{"erro": nferr.Error()})
		return
	}

	var cerr *reconcile.ConflictError
	if errors.As(err, &cerr) {
		middleware.CountPaymentConflict()
		c.JSON(http.StatusConflict, gin.H{"erro": "conflito de concorrencia, tente novamente", "retryable": true})
		return
	}

	var perr *reconcile.PolicyError
	if errors.As(err, &perr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"erro": perr.Reason})
		return
	}

	slog.Error("internal error", "err", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"erro": "erro interno"})
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "identificador invalido"})
		return 0, false
	}
	return id, true
}

// hubMember resolves the authenticated user's membership in the :id hub.
// Writes the error response itself when the user is not an active member.
func hubMember(c *gin.Context, pool *pgxpool.Pool) (*models.Person, bool) {
	hubID, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}

	person, err := database.GetPersonByUserAndHub(c.Request.Context(), pool, middleware.GetUserID(c), hubID)
	if err != nil {
		var nferr *reconcile.NotFoundError
		if errors.As(err, &nferr) {
			c.JSON(http.StatusForbidden, gin.H{"erro": "voce nao participa deste hub"})
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}
	return person, true
}

// requireWriter rejects VIEWER members. hubMember must have succeeded.
func requireWriter(c *gin.Context, person *models.Person) bool {
	if person.Role == models.RoleViewer {
		c.JSON(http.StatusForbidden, gin.H{"erro": "seu papel no hub nao permite alteracoes"})
		return false
	}
	return true
}

// requireManager rejects everyone below ADMIN.
func requireManager(c *gin.Context, person *models.Person) bool {
	if person.Role != models.RoleOwner && person.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"erro": "apenas OWNER ou ADMIN podem fazer isso"})
		return false
	}
	return true
}
