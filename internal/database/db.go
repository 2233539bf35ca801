package database

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// ConnectDB opens the connection pool from environment variables.
// DATABASE_URL wins; otherwise the URL is composed from DB_USER, DB_PASSWORD,
// DB_HOST and DB_NAME.
func ConnectDB(ctx context.Context) (*pgxpool.Pool, error) {
	// .env is optional outside development.
	_ = godotenv.Load()

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = fmt.Sprintf("postgres://%s:%s@%s:5432/%s",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"), os.Getenv("DB_NAME"))
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no banco: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("erro ao validar conexao com o banco: %w", err)
	}
	return pool, nil
}
