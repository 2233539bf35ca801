package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/alissonfar/expense-hub-sub001/internal/reconcile"
	"github.com/alissonfar/expense-hub-sub001/models"
)

// RegisterUser creates an account with a bcrypt-hashed password.
func RegisterUser(ctx context.Context, pool *pgxpool.Pool, user *models.User) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("erro ao gerar hash da senha: %w", err)
	}

	query := `
		INSERT INTO usuarios (nome, email, senha)
		VALUES ($1, $2, $3)
		RETURNING id, criado_em`
	err = pool.QueryRow(ctx, query, user.Name, user.Email, string(hashed)).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao registrar usuario: %w", err)
	}
	user.Password = ""
	return nil
}

// AuthenticateUser checks email and password, returning the user on success.
func AuthenticateUser(ctx context.Context, pool *pgxpool.Pool, email, password string) (*models.User, error) {
	var user models.User
	query := `SELECT id, nome, email, senha, is_god, criado_em FROM usuarios WHERE email = $1`
	err := pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.IsGod, &user.CreatedAt)
	if err != nil {
		return nil, errors.New("email ou senha invalidos")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("email ou senha invalidos")
	}

	user.Password = ""
	return &user, nil
}

// GetUserByID loads an account without the password hash.
func GetUserByID(ctx context.Context, pool *pgxpool.Pool, id int) (*models.User, error) {
	var user models.User
	query := `SELECT id, nome, email, is_god, criado_em FROM usuarios WHERE id = $1`
	err := pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email, &user.IsGod, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &reconcile.NotFoundError{Resource: "usuario", ID: id}
		}
		return nil, fmt.Errorf("erro ao buscar usuario: %w", err)
	}
	return &user, nil
}
