package stats

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetToday 返回当前周期日的双人统计。
func GetToday(c *gin.Context) {
	day, err := Today(time.Now())
	if err != nil {
		logger.L().Error("读取今日统计失败", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "实时存储暂时不可用"})
		return
	}
	c.JSON(http.StatusOK, day)
}

// GetTrend 返回最近N个周期日的统计趋势，默认7天，上限31天。
func GetTrend(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 31 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days参数必须在1到31之间"})
			return
		}
		days = n
	}

	trend, err := Trend(time.Now(), days)
	if err != nil {
		logger.L().Error("读取统计趋势失败", zap.Int("days", days), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "统计数据暂时不可用"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": trend})
}
