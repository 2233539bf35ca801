package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
)

func respondWith(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, err)
	return w
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			"validation error is 400",
			&reconcile.ValidationError{Problems: []reconcile.FieldProblem{{Field: "valor_total", Message: "x"}}},
			http.StatusBadRequest,
		},
		{"not found is 404", &reconcile.NotFoundError{Resource: "transacao", ID: 3}, http.StatusNotFound},
		{"conflict is 409", &reconcile.ConflictError{Err: errors.New("40001")}, http.StatusConflict},
		{"policy error is 422", &reconcile.PolicyError{Reason: "abaixo do minimo"}, http.StatusUnprocessableEntity},
		{"anything else is 500", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := respondWith(t, tt.err)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, esperava %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRespondErrorValidationCarriesFields(t *testing.T) {
	w := respondWith(t, &reconcile.ValidationError{Problems: []reconcile.FieldProblem{
		{Field: "valor_aplicado", Message: "valor aplicado excede o valor pendente da transacao"},
	}})

	var body struct {
		Erro   string `json:"erro"`
		Campos []struct {
			Campo    string `json:"campo"`
			Mensagem string `json:"mensagem"`
		} `json:"campos"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("resposta nao e JSON: %v", err)
	}
	if len(body.Campos) != 1 || body.Campos[0].Campo != "valor_aplicado" {
		t.Errorf("campos = %+v, esperava valor_aplicado", body.Campos)
	}
}

func TestRespondErrorConflictIsRetryable(t *testing.T) {
	w := respondWith(t, &reconcile.ConflictError{Err: errors.New("deadlock detected")})

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("resposta nao e JSON: %v", err)
	}
	if retryable, _ := body["retryable"].(bool); !retryable {
		t.Errorf("resposta de conflito sem retryable=true: %v", body)
	}
}
