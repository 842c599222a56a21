package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/huayhub/huay-engine-backend/internal/config"
	"github.com/huayhub/huay-engine-backend/internal/handlers"
	"github.com/huayhub/huay-engine-backend/internal/middleware"
)

// HandlerDependencies groups the constructed handlers for the router.
type HandlerDependencies struct {
	LotteryHandler *handlers.LotteryHandler
	DrawHandler    *handlers.DrawHandler
	PayoutHandler  *handlers.PayoutHandler
	BetHandler     *handlers.BetHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		// Lottery catalog routes
		lotteries := protected.Group("/lotteries")
		{
			lotteries.GET("", deps.LotteryHandler.GetLotteries)
			lotteries.GET("/:code", deps.LotteryHandler.GetLottery)
			lotteries.POST("", deps.LotteryHandler.CreateLottery)
			lotteries.PUT("/:code", deps.LotteryHandler.UpdateLottery)
			lotteries.PATCH("/:code/enabled", deps.LotteryHandler.SetLotteryEnabled)
		}

		// Draw lifecycle routes
		draws := protected.Group("/draws")
		{
			draws.GET("", deps.DrawHandler.ListDraws)
			draws.GET("/:id", deps.DrawHandler.GetDraw)
			draws.GET("/:id/winning-numbers", deps.DrawHandler.GetWinningNumbers)
			draws.GET("/:id/quotas", deps.DrawHandler.GetQuotaCounters)
			draws.POST("", deps.DrawHandler.OpenDraw)
			draws.POST("/:id/close", deps.DrawHandler.CloseDraw)
			draws.POST("/:id/cancel", deps.DrawHandler.CancelDraw)
			draws.POST("/:id/result", deps.DrawHandler.AnnounceResult)
			draws.POST("/result-preview", deps.DrawHandler.PreviewResult)
		}

		// Payout configuration routes
		configs := protected.Group("/payout-configs")
		{
			configs.GET("/:lotteryCode", deps.PayoutHandler.GetPayoutConfigs)
			configs.PUT("", deps.PayoutHandler.UpsertPayoutConfig)
		}

		tiers := protected.Group("/payout-tiers")
		{
			tiers.GET("/:lotteryCode/:option", deps.PayoutHandler.GetTierTable)
			tiers.GET("/:lotteryCode/:option/resolve", deps.PayoutHandler.ResolveMultiplier)
			tiers.PUT("", deps.PayoutHandler.ReplaceTierTable)
			tiers.POST("/:lotteryCode/:option/bootstrap", deps.PayoutHandler.BootstrapDefaultTiers)
		}

		limits := protected.Group("/number-limits")
		{
			limits.GET("/:lotteryCode/:option", deps.PayoutHandler.GetNumberLimits)
			limits.POST("", deps.PayoutHandler.PutNumberLimit)
			limits.PUT("/:id", deps.PayoutHandler.UpdateNumberLimit)
			limits.DELETE("/:id", deps.PayoutHandler.DeleteNumberLimit)
		}

		// Bet admission
		bets := protected.Group("/bets")
		{
			bets.POST("", deps.BetHandler.AdmitBet)
		}
	}

	return router
}
