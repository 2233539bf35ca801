package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/internal/middleware"
	"github.com/alissonfar/expense-hub-sub001/models"
)

// payerFor validates that the payment target person belongs to the caller's
// hub and that the caller may register payments for them: anyone may pay
// their own share, writers may register for others.
func payerFor(c *gin.Context, pool *pgxpool.Pool, caller *models.Person, personID int) (*models.Person, bool) {
	if personID == caller.ID {
		return caller, true
	}
	if !requireWriter(c, caller) {
		return nil, false
	}

	payer, err := database.GetPersonByID(c.Request.Context(), pool, personID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if payer.HubID != caller.HubID {
		c.JSON(http.StatusNotFound, gin.H{"erro": "pessoa nao pertence a este hub"})
		return nil, false
	}
	return payer, true
}

func CreateSimplePaymentHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := hubMember(c, pool)
		if !ok {
			return
		}

		var in models.SimplePaymentInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "payload invalido"})
			return
		}
		if in.PersonID == 0 {
			in.PersonID = caller.ID
		}

		payer, ok := payerFor(c, pool, caller, in.PersonID)
		if !ok {
			return
		}

		payment, err := database.CreateSimplePayment(c.Request.Context(), pool, payer, &in)
		if err != nil {
			respondError(c, err)
			return
		}
		middleware.CountPayment()
		c.JSON(http.StatusCreated, payment)
	}
}

func CreateCompositePaymentHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := hubMember(c, pool)
		if !ok {
			return
		}

		var in models.CompositePaymentInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "payload invalido"})
			return
		}
		if in.PersonID == 0 {
			in.PersonID = caller.ID
		}

		payer, ok := payerFor(c, pool, caller, in.PersonID)
		if !ok {
			return
		}

		payment, err := database.CreateCompositePayment(c.Request.Context(), pool, payer, &in)
		if err != nil {
			respondError(c, err)
			return
		}
		middleware.CountPayment()
		c.JSON(http.StatusCreated, payment)
	}
}

func ListPaymentsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok {
			return
		}

		personID := 0
		if raw := c.Query("pessoa_id"); raw != "" {
			personID, _ = strconv.Atoi(raw)
		}
		if person.AccessPolicy == models.AccessIndividual {
			personID = person.ID
		}

		payments, err := database.ListPayments(c.Request.Context(), pool, person.HubID, personID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

func GetPaymentHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		payment, err := database.GetPaymentByID(c.Request.Context(), pool, id)
		if err != nil {
			respondError(c, err)
			return
		}

		person, err := database.GetPersonByUserAndHub(c.Request.Context(), pool, middleware.GetUserID(c), payment.HubID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"erro": "voce nao participa deste hub"})
			return
		}
		if person.AccessPolicy == models.AccessIndividual && payment.PersonID != person.ID {
			c.JSON(http.StatusForbidden, gin.H{"erro": "voce nao pode ver pagamentos de outras pessoas"})
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

func DeletePaymentHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		payment, err := database.GetPaymentByID(c.Request.Context(), pool, id)
		if err != nil {
			respondError(c, err)
			return
		}

		person, err := database.GetPersonByUserAndHub(c.Request.Context(), pool, middleware.GetUserID(c), payment.HubID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"erro": "voce nao participa deste hub"})
			return
		}
		if payment.PersonID != person.ID && !requireWriter(c, person) {
			return
		}

		if err := database.DeletePayment(c.Request.Context(), pool, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensagem": "pagamento removido e valores estornados"})
	}
}

// ListPendingHandler exposes the pending-balance resolver.
func ListPendingHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok {
			return
		}

		personID := person.ID
		if raw := c.Query("pessoa_id"); raw != "" {
			personID, _ = strconv.Atoi(raw)
		}
		if person.AccessPolicy == models.AccessIndividual && personID != person.ID {
			c.JSON(http.StatusForbidden, gin.H{"erro": "voce so pode consultar suas proprias pendencias"})
			return
		}

		var transactionIDs []int
		if raw := c.Query("transacao_id"); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				id, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil || id <= 0 {
					c.JSON(http.StatusBadRequest, gin.H{"erro": "transacao_id invalido"})
					return
				}
				transactionIDs = append(transactionIDs, id)
			}
		}

		pending, err := database.ListPendingBalances(c.Request.Context(), pool, person.HubID, personID, transactionIDs)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}
