package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alissonfar/expense-hub-sub001/internal/auth"
	"github.com/alissonfar/expense-hub-sub001/models"
)

func testRouter(jwtManager *auth.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protegida", RequireAuth(jwtManager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	r.GET("/admin", RequireAuth(jwtManager), RequireGod(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	m := auth.NewJWTManager("segredo-de-teste", time.Hour)
	router := testRouter(m)

	token, err := m.Generate(&models.User{ID: 7, Email: "x@example.com"})
	if err != nil {
		t.Fatalf("erro ao gerar token: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"sem header", "", http.StatusUnauthorized},
		{"formato errado", token, http.StatusUnauthorized},
		{"esquema errado", "Basic " + token, http.StatusUnauthorized},
		{"token invalido", "Bearer lixo", http.StatusUnauthorized},
		{"token valido", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protegida", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, esperava %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireGod(t *testing.T) {
	m := auth.NewJWTManager("segredo-de-teste", time.Hour)
	router := testRouter(m)

	regular, _ := m.Generate(&models.User{ID: 1})
	god, _ := m.Generate(&models.User{ID: 2, IsGod: true})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+regular)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("usuario comum: status = %d, esperava 403", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+god)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("usuario deus: status = %d, esperava 200", w.Code)
	}
}
