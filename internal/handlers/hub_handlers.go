package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/internal/middleware"
	"github.com/alissonfar/expense-hub-sub001/models"
)

func CreateHubHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name string `json:"nome"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "nome do hub obrigatorio"})
			return
		}

		user, err := database.GetUserByID(c.Request.Context(), pool, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}

		hub := &models.Hub{Name: strings.TrimSpace(req.Name)}
		owner, err := database.CreateHub(c.Request.Context(), pool, hub, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"hub": hub, "pessoa": owner})
	}
}

func ListHubsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		hubs, err := database.GetHubsByUserID(c.Request.Context(), pool, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, hubs)
	}
}

func ListMembersHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok {
			return
		}
		members, err := database.GetHubMembers(c.Request.Context(), pool, person.HubID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	}
}

func CreateInviteHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok || !requireManager(c, person) {
			return
		}

		var req struct {
			Email        string `json:"email"`
			Role         string `json:"papel"`
			AccessPolicy string `json:"politica_acesso"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "payload invalido"})
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Role == "" {
			req.Role = models.RoleCollaborator
		}
		if req.AccessPolicy == "" {
			req.AccessPolicy = models.AccessIndividual
		}
		if req.Email == "" || !models.ValidRole(req.Role) || !models.ValidAccessPolicy(req.AccessPolicy) {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "email, papel ou politica de acesso invalidos"})
			return
		}
		if req.Role == models.RoleOwner {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "um hub tem apenas um OWNER"})
			return
		}

		invite := &models.Invite{
			HubID:        person.HubID,
			Email:        req.Email,
			Role:         req.Role,
			AccessPolicy: req.AccessPolicy,
		}
		if err := database.CreateInvite(c.Request.Context(), pool, invite); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, invite)
	}
}

func AcceptInviteHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("codigo")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "codigo do convite obrigatorio"})
			return
		}

		user, err := database.GetUserByID(c.Request.Context(), pool, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}

		person, err := database.AcceptInvite(c.Request.Context(), pool, code, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, person)
	}
}

func UpdateMemberHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok || !requireManager(c, person) {
			return
		}
		targetID, ok := pathID(c, "pessoaId")
		if !ok {
			return
		}

		target, err := database.GetPersonByID(c.Request.Context(), pool, targetID)
		if err != nil {
			respondError(c, err)
			return
		}
		if target.HubID != person.HubID {
			c.JSON(http.StatusNotFound, gin.H{"erro": "pessoa nao pertence a este hub"})
			return
		}
		if target.Role == models.RoleOwner {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "o OWNER do hub nao pode ser alterado"})
			return
		}

		var req struct {
			Role         string `json:"papel"`
			AccessPolicy string `json:"politica_acesso"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "payload invalido"})
			return
		}
		if !models.ValidRole(req.Role) || req.Role == models.RoleOwner || !models.ValidAccessPolicy(req.AccessPolicy) {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "papel ou politica de acesso invalidos"})
			return
		}

		if err := database.UpdatePersonRole(c.Request.Context(), pool, targetID, req.Role, req.AccessPolicy); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensagem": "pessoa atualizada"})
	}
}

func DeactivateMemberHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok || !requireManager(c, person) {
			return
		}
		targetID, ok := pathID(c, "pessoaId")
		if !ok {
			return
		}

		target, err := database.GetPersonByID(c.Request.Context(), pool, targetID)
		if err != nil {
			respondError(c, err)
			return
		}
		if target.HubID != person.HubID {
			c.JSON(http.StatusNotFound, gin.H{"erro": "pessoa nao pertence a este hub"})
			return
		}
		if target.Role == models.RoleOwner {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "o OWNER do hub nao pode ser desativado"})
			return
		}

		if err := database.DeactivatePerson(c.Request.Context(), pool, targetID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensagem": "pessoa desativada"})
	}
}
