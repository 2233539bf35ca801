package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/models"
)

func CreateTagHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok || !requireWriter(c, person) {
			return
		}

		var req struct {
			Name  string `json:"nome"`
			Color string `json:"cor"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "nome da tag obrigatorio"})
			return
		}

		tag := &models.Tag{HubID: person.HubID, Name: strings.TrimSpace(req.Name), Color: req.Color}
		if err := database.CreateTag(c.Request.Context(), pool, tag); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, tag)
	}
}

func ListTagsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok {
			return
		}
		tags, err := database.ListTags(c.Request.Context(), pool, person.HubID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tags)
	}
}

func UpdateTagHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok || !requireWriter(c, person) {
			return
		}
		tagID, ok := pathID(c, "tagId")
		if !ok {
			return
		}

		var req struct {
			Name  string `json:"nome"`
			Color string `json:"cor"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "nome da tag obrigatorio"})
			return
		}

		tag := &models.Tag{ID: tagID, HubID: person.HubID, Name: strings.TrimSpace(req.Name), Color: req.Color}
		if err := database.UpdateTag(c.Request.Context(), pool, tag); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tag)
	}
}

func DeleteTagHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		person, ok := hubMember(c, pool)
		if !ok || !requireWriter(c, person) {
			return
		}
		tagID, ok := pathID(c, "tagId")
		if !ok {
			return
		}

		if err := database.DeleteTag(c.Request.Context(), pool, person.HubID, tagID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensagem": "tag removida"})
	}
}
