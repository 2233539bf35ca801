package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/auth"
	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/internal/middleware"
	"github.com/alissonfar/expense-hub-sub001/models"
)

type registerRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

func RegisterHandler(pool *pgxpool.Pool, jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "payload invalido"})
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "nome, email e senha (minimo 8 caracteres) sao obrigatorios"})
			return
		}

		user := &models.User{Name: req.Name, Email: req.Email, Password: req.Password}
		if err := database.RegisterUser(c.Request.Context(), pool, user); err != nil {
			respondError(c, err)
			return
		}

		token, err := jwtManager.Generate(user)
		if err != nil {
			respondError(c, err)
			return
		}
		user.Password = ""
		c.JSON(http.StatusCreated, gin.H{"token": token, "usuario": user})
	}
}

func LoginHandler(pool *pgxpool.Pool, jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"erro": "payload invalido"})
			return
		}

		user, err := database.AuthenticateUser(c.Request.Context(), pool, strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"erro": "email ou senha invalidos"})
			return
		}

		token, err := jwtManager.Generate(user)
		if err != nil {
			respondError(c, err)
			return
		}
		user.Password = ""
		c.JSON(http.StatusOK, gin.H{"token": token, "usuario": user})
	}
}

// MeHandler returns the authenticated user.
func MeHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := database.GetUserByID(c.Request.Context(), pool, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		user.Password = ""
		c.JSON(http.StatusOK, user)
	}
}
