package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/internal/middleware"
	"github.com/alissonfar/expense-hub-sub001/models"
)

func CreateTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok || !requireWriter(c, person) {
			return
		}

		var in database.TransactionInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "payload invalido"})
			return
		}

		created, err := database.CreateTransaction(c.Request.Context(), pool, person.HubID, &person.ID, &in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func ListTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok {
			return
		}

		filter := database.TransactionFilter{
			Type:   c.Query("tipo"),
			Status: c.Query("status"),
		}
		if raw := c.Query("tag_id"); raw != "" {
			filter.TagID, _ = strconv.Atoi(raw)
		}
		if raw := c.Query("pessoa_id"); raw != "" {
			filter.PersonID, _ = strconv.Atoi(raw)
		}
		// INDIVIDUAL members only ever see their own share of the hub.
		if person.AccessPolicy == models.AccessIndividual {
			filter.PersonID = person.ID
		}

		txs, err := database.ListTransactions(c.Request.Context(), pool, person.HubID, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}

// transactionForUser loads a transaction and checks the caller is an active
// member of its hub. Writes the error response on failure.
func transactionForUser(c *gin.Context, pool *pgxpool.Pool) (*models.Transaction, *models.Person, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, nil, false
	}

	t, err := database.GetTransactionByID(c.Request.Context(), pool, id)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}

	person, err := database.GetPersonByUserAndHub(c.Request.Context(), pool, middleware.GetUserID(c), t.HubID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"erro": "voce nao participa deste hub"})
		return nil, nil, false
	}
	return t, person, true
}

func GetTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, person, ok := transactionForUser(c, pool)
		if !ok {
			return
		}
		if person.AccessPolicy == models.AccessIndividual && !participates(t, person.ID) {
			c.JSON(http.StatusForbidden, gin.H{"erro": "voce nao participa desta transacao"})
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func participates(t *models.Transaction, personID int) bool {
	for _, p := range t.Participants {
		if p.PersonID == personID {
			return true
		}
	}
	return false
}

func UpdateTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, person, ok := transactionForUser(c, pool)
		if !ok || !requireWriter(c, person) {
			return
		}

		var req struct {
			Description string `json:"descricao"`
			DueDate     string `json:"data_vencimento"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Description == "" {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "descricao obrigatoria"})
			return
		}

		var dueDate *time.Time
		if req.DueDate != "" {
			d, err := time.Parse("2006-01-02", req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"erro": "data_vencimento invalida, use AAAA-MM-DD"})
				return
			}
			dueDate = &d
		}

		if err := database.UpdateTransactionDetails(c.Request.Context(), pool, t.ID, req.Description, dueDate); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensagem": "transacao atualizada"})
	}
}

func DeleteTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, person, ok := transactionForUser(c, pool)
		if !ok || !requireWriter(c, person) {
			return
		}

		if err := database.SoftDeleteTransaction(c.Request.Context(), pool, t.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensagem": "transacao removida"})
	}
}

func TagTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, person, ok := transactionForUser(c, pool)
		if !ok || !requireWriter(c, person) {
			return
		}

		var req struct {
			TagID int `json:"tag_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.TagID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "tag_id obrigatorio"})
			return
		}

		if err := database.TagTransaction(c.Request.Context(), pool, t.ID, req.TagID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensagem": "tag vinculada"})
	}
}
