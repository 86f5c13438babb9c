package router

import (
	"github.com/gin-gonic/gin"

	"github.com/zobamart/marketplace-backend/internal/config"
	"github.com/zobamart/marketplace-backend/internal/http/handlers"
	"github.com/zobamart/marketplace-backend/internal/http/middleware"
	"github.com/zobamart/marketplace-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	payoutHandler *handlers.PayoutHandler,
	holdHandler *handlers.HoldHandler,
	refundHandler *handlers.RefundHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/login", authHandler.Login)
	}

	// Token is passed as a query parameter, the handler validates it itself.
	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/payouts", payoutHandler.CreatePayout)
		protected.GET("/payouts", payoutHandler.ListMyPayouts)
		protected.GET("/payouts/balance", payoutHandler.GetMyBalance)

		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireAdmin())
	{
		admin.GET("/payouts", payoutHandler.ListPayouts)
		admin.POST("/payouts/bulk-approve", payoutHandler.BulkApprove)
		admin.POST("/payouts/bulk-reject", payoutHandler.BulkReject)
		admin.GET("/payouts/:id", middleware.UUIDValidator("id"), payoutHandler.GetPayout)
		admin.POST("/payouts/:id/approve", middleware.UUIDValidator("id"), payoutHandler.ApprovePayout)
		admin.POST("/payouts/:id/reject", middleware.UUIDValidator("id"), payoutHandler.RejectPayout)

		admin.GET("/payout-holds", holdHandler.ListHolds)
		admin.POST("/payout-holds", holdHandler.CreateHold)
		admin.GET("/payout-holds/:id", middleware.UUIDValidator("id"), holdHandler.GetHold)
		admin.PUT("/payout-holds/:id/release", middleware.UUIDValidator("id"), holdHandler.ReleaseHold)

		admin.GET("/refunds", refundHandler.ListPendingRefunds)

		admin.GET("/vendors/:id/available-balance", middleware.UUIDValidator("id"), payoutHandler.VendorAvailableBalance)
		admin.GET("/vendors/:id/payout-holds", middleware.UUIDValidator("id"), holdHandler.ListVendorHolds)
	}

	return r
}
