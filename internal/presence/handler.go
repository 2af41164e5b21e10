package presence

import (
	"net/http"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/character"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/internal/reward"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SendWave 处理 POST /api/presence/wave。
// 挥手是一次性的：搭档每次上线边沿重新武装一次，用掉即失效。
func SendWave(c *gin.Context) {
	me := character.FromContext(c)
	if !TakeWave(me) {
		c.JSON(http.StatusConflict, gin.H{"error": "这次上线已经挥过手了"})
		return
	}

	if _, err := reward.Send(me, reward.Reward{Kind: reward.KindWave}, time.Now()); err != nil {
		// 发送失败把机会还回去，让用户可以重试
		armWave(me)
		logger.L().Error("发送挥手失败", zap.String("character", me), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "挥手失败，请稍后重试"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"waved": true})
}
