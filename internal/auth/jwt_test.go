package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/alissonfar/expense-hub-sub001/models"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("segredo-de-teste", time.Hour)
	user := &models.User{ID: 42, Email: "maria@example.com", IsGod: true}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("erro ao gerar token: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("erro ao validar token: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "maria@example.com" || !claims.IsGod {
		t.Errorf("claims = %+v, esperava usuario 42", claims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("segredo-a", time.Hour).Generate(&models.User{ID: 1})
	if err != nil {
		t.Fatalf("erro ao gerar token: %v", err)
	}

	_, err = NewJWTManager("segredo-b", time.Hour).Validate(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("esperava ErrInvalidToken, veio %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	token, err := NewJWTManager("segredo", -time.Minute).Generate(&models.User{ID: 1})
	if err != nil {
		t.Fatalf("erro ao gerar token: %v", err)
	}

	if _, err := NewJWTManager("segredo", -time.Minute).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("esperava ErrInvalidToken para token expirado, veio %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewJWTManager("segredo", time.Hour)
	if _, err := m.Validate("nao-e-um-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("esperava ErrInvalidToken, veio %v", err)
	}
}
