package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/alissonfar/expense-hub-sub001/internal/auth"
	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/internal/middleware"
	"github.com/alissonfar/expense-hub-sub001/internal/routes"
	"github.com/alissonfar/expense-hub-sub001/pkg/logging"
)

// ScheduleDailyJobs runs the status-projection sweep and the due-date
// notification job once a day.
func ScheduleDailyJobs(pool *pgxpool.Pool) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@daily", func() {
		fixed, err := database.RecomputeAllStatuses(context.Background(), pool)
		if err != nil {
			slog.Error("status sweep failed", "err", err)
			return
		}
		slog.Info("status sweep done", "fixed", fixed)
	}); err != nil {
		log.Fatalf("erro ao agendar varredura de status: %v", err)
	}

	if _, err := c.AddFunc("@daily", func() {
		created, err := database.CreateDueNotifications(context.Background(), pool, time.Now())
		if err != nil {
			slog.Error("due-date notification job failed", "err", err)
			return
		}
		slog.Info("due-date notifications created", "count", created)
	}); err != nil {
		log.Fatalf("erro ao agendar notificacoes de vencimento: %v", err)
	}

	c.Start()
	return c
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "http://localhost:3000" || origin == "http://localhost:3001" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("arquivo .env nao encontrado, usando variaveis de ambiente")
	}
	logging.Setup()

	ctx := context.Background()
	pool, err := database.ConnectDB(ctx)
	if err != nil {
		log.Fatalf("erro ao conectar ao banco: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("erro ao executar migracoes: %v", err)
	}

	jwtManager, err := auth.NewJWTManagerFromEnv()
	if err != nil {
		log.Fatalf("erro na configuracao de JWT: %v", err)
	}

	jobs := ScheduleDailyJobs(pool)
	defer jobs.Stop()

	r := gin.Default()
	r.Use(CORSMiddleware())
	r.Use(middleware.Metrics())
	routes.Register(r, pool, jwtManager)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("erro ao iniciar servidor: %v", err)
	}
}
