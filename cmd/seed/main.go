package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/internal/seed"
)

func main() {
	numUsers := flag.Int("usuarios", 5, "quantidade de usuarios")
	numTransactions := flag.Int("transacoes", 40, "quantidade de transacoes")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("arquivo .env nao encontrado, usando variaveis de ambiente")
	}

	ctx := context.Background()
	pool, err := database.ConnectDB(ctx)
	if err != nil {
		log.Fatalf("erro ao conectar ao banco: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("erro ao executar migracoes: %v", err)
	}

	users := seed.Users(ctx, pool, *numUsers)
	hub, people, tags := seed.Hub(ctx, pool, users)
	txs := seed.Transactions(ctx, pool, hub, people, tags, *numTransactions)
	payments := seed.Payments(ctx, pool, people, txs)

	log.Printf("seed concluido: %d usuarios, hub %q, %d transacoes, %d pagamentos",
		len(users), hub.Name, len(txs), payments)
}
