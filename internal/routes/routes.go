package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alissonfar/expense-hub-sub001/internal/auth"
	"github.com/alissonfar/expense-hub-sub001/internal/database"
	"github.com/alissonfar/expense-hub-sub001/internal/handlers"
	"github.com/alissonfar/expense-hub-sub001/internal/middleware"
)

// Register wires every route of the API onto the engine.
func Register(r *gin.Engine, pool *pgxpool.Pool, jwtManager *auth.JWTManager) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	r.POST("/registrar", handlers.RegisterHandler(pool, jwtManager))
	r.POST("/login", handlers.LoginHandler(pool, jwtManager))

	api := r.Group("/", middleware.RequireAuth(jwtManager))
	{
		api.GET("/me", handlers.MeHandler(pool))

		api.POST("/hubs", handlers.CreateHubHandler(pool))
		api.GET("/hubs", handlers.ListHubsHandler(pool))
		api.GET("/hubs/:id/pessoas", handlers.ListMembersHandler(pool))
		api.POST("/hubs/:id/convites", handlers.CreateInviteHandler(pool))
		api.PUT("/hubs/:id/pessoas/:pessoaId", handlers.UpdateMemberHandler(pool))
		api.DELETE("/hubs/:id/pessoas/:pessoaId", handlers.DeactivateMemberHandler(pool))
		api.POST("/convites/:codigo/aceitar", handlers.AcceptInviteHandler(pool))

		api.POST("/hubs/:id/transacoes", handlers.CreateTransactionHandler(pool))
		api.GET("/hubs/:id/transacoes", handlers.ListTransactionsHandler(pool))
		api.GET("/transacoes/:id", handlers.GetTransactionHandler(pool))
		api.PUT("/transacoes/:id", handlers.UpdateTransactionHandler(pool))
		api.DELETE("/transacoes/:id", handlers.DeleteTransactionHandler(pool))
		api.POST("/transacoes/:id/tags", handlers.TagTransactionHandler(pool))

		api.GET("/hubs/:id/pendencias", handlers.ListPendingHandler(pool))

		api.POST("/hubs/:id/pagamentos", handlers.CreateSimplePaymentHandler(pool))
		api.POST("/hubs/:id/pagamentos/composto", handlers.CreateCompositePaymentHandler(pool))
		api.GET("/hubs/:id/pagamentos", handlers.ListPaymentsHandler(pool))
		api.GET("/pagamentos/:id", handlers.GetPaymentHandler(pool))
		api.DELETE("/pagamentos/:id", handlers.DeletePaymentHandler(pool))

		api.GET("/hubs/:id/configuracoes/excedente", handlers.GetExcessConfigHandler(pool))
		api.PUT("/hubs/:id/configuracoes/excedente", handlers.UpdateExcessConfigHandler(pool))

		api.POST("/hubs/:id/tags", handlers.CreateTagHandler(pool))
		api.GET("/hubs/:id/tags", handlers.ListTagsHandler(pool))
		api.PUT("/hubs/:id/tags/:tagId", handlers.UpdateTagHandler(pool))
		api.DELETE("/hubs/:id/tags/:tagId", handlers.DeleteTagHandler(pool))

		api.GET("/hubs/:id/relatorios/saldos", handlers.PersonBalancesHandler(pool))
		api.GET("/hubs/:id/relatorios/resumo", handlers.MonthlySummaryHandler(pool))
		api.GET("/hubs/:id/relatorios/tags", handlers.TagSummaryHandler(pool))
		api.POST("/hubs/:id/relatorios", handlers.SaveReportHandler(pool))
		api.GET("/hubs/:id/relatorios", handlers.ListReportsHandler(pool))

		api.GET("/notificacoes", handlers.ListNotificationsHandler(pool))
		api.PUT("/notificacoes/:id/lida", handlers.MarkNotificationReadHandler(pool))

		admin := api.Group("/admin", middleware.RequireGod())
		{
			admin.GET("/estatisticas/usuarios", database.GetUserStats(pool))
			admin.GET("/estatisticas/hubs", database.GetHubStats(pool))
			admin.GET("/registros-por-mes", database.GetRegistrationsByMonth(pool))
		}
	}
}
