package router

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hetansh2220/hoperise/internal/cache"
	"github.com/hetansh2220/hoperise/internal/config"
	"github.com/hetansh2220/hoperise/internal/gateway"
	"github.com/hetansh2220/hoperise/internal/handler"
	"github.com/hetansh2220/hoperise/internal/ledger"
)

func Setup(store *cache.Store, client *ledger.Client, gw *gateway.Client, cfg *config.Config) *gin.Engine {
	// gin.Default 已带 Logger 和 Recovery
	r := gin.Default()

	// 中间件
	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "hoperise",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 活动读路由
		campaignHandler := handler.NewCampaignHandler(store, gw)
		mutationHandler := handler.NewMutationHandler(client, store)
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.POST("", mutationHandler.CreateCampaign)
			campaigns.GET("/:address", campaignHandler.GetCampaign)
			campaigns.GET("/:address/milestones", campaignHandler.GetMilestones)
			campaigns.GET("/:address/contributions", campaignHandler.GetContributions)
			campaigns.GET("/:address/contributions/:contributor", campaignHandler.GetContribution)
			campaigns.POST("/:address/watch", campaignHandler.WatchCampaign)
			campaigns.DELETE("/:address/watch", campaignHandler.UnwatchCampaign)

			// 活动写路由
			campaigns.POST("/:address/fund", mutationHandler.FundCampaign)
			campaigns.POST("/:address/withdraw", mutationHandler.WithdrawFunds)
			campaigns.POST("/:address/milestones", mutationHandler.AddMilestone)
			campaigns.POST("/:address/milestones/:index/complete", mutationHandler.CompleteMilestone)
			campaigns.POST("/:address/close", mutationHandler.CloseCampaign)
			campaigns.POST("/:address/refund", mutationHandler.ClaimRefund)
		}

		// 平台统计与账本状态
		v1.GET("/stats", campaignHandler.GetStats)
		v1.GET("/ledger/status", mutationHandler.LedgerStatus)

		// 内容上传路由
		contentHandler := handler.NewContentHandler(gw)
		content := v1.Group("/content")
		{
			content.POST("/file", contentHandler.PinFile)
			content.POST("/text", contentHandler.PinText)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// 请求ID中间件，响应头回带便于排查链上提交
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("requestID", id)
		c.Next()
	}
}
