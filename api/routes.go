package api

import (
	"github.com/MoyuStudio/focus-duo-backend/internal/character"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/health"
	"github.com/MoyuStudio/focus-duo-backend/internal/presence"
	"github.com/MoyuStudio/focus-duo-backend/internal/reward"
	"github.com/MoyuStudio/focus-duo-backend/internal/session"
	"github.com/MoyuStudio/focus-duo-backend/internal/stats"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由。
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", health.GetHealth)

		// 入驻：角色选择不要求已有cookie
		api.GET("/characters", character.ListCharacters)
		api.POST("/characters/select", character.SelectCharacter)

		authed := api.Group("", character.RequireCharacterMiddleware())
		{
			// 专注会话
			sessionRoutes := authed.Group("/session")
			{
				sessionRoutes.POST("/start", session.Start)
				sessionRoutes.POST("/pause", session.Pause)
				sessionRoutes.POST("/resume", session.Resume)
				sessionRoutes.POST("/end", session.End)
				sessionRoutes.GET("/state", session.GetState)
			}

			// 实时推送与presence
			authed.GET("/live/feed", presence.Feed)
			authed.POST("/presence/wave", presence.SendWave)

			// 奖励与留言
			rewardRoutes := authed.Group("/rewards")
			{
				rewardRoutes.POST("/send", reward.SendReward)
				rewardRoutes.POST("/consume", reward.ConsumeInbox)
			}

			// 每日统计
			statsRoutes := authed.Group("/stats")
			{
				statsRoutes.GET("/today", stats.GetToday)
				statsRoutes.GET("/trend", stats.GetTrend)
			}
		}
	}
}
