package character

import (
	"net/http"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/internal/userstate"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SelectRequestBody 是角色选择请求的JSON结构。
type SelectRequestBody struct {
	Character string `json:"character" binding:"required"`
}

// SelectCharacter 处理入驻时的角色选择。
// 重建该角色的状态节点(清空运行字段)，并下发长期cookie。幂等。
func SelectCharacter(c *gin.Context) {
	var body SelectRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}
	if !config.Cfg.App.IsCharacter(body.Character) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的角色: " + body.Character})
		return
	}

	if err := userstate.ResetNode(body.Character); err != nil {
		logger.L().Error("重建角色状态节点失败", zap.String("character", body.Character), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "实时存储暂时不可用"})
		return
	}

	c.SetCookie(CookieName, body.Character, CookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"character": body.Character})
}

// ListCharacters 返回两位角色的标识，供前端渲染选择页。
func ListCharacters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"characters": config.Cfg.App.Characters()})
}
