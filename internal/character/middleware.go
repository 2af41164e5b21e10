package character

import (
	"net/http"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

const (
	CookieName   = "focus-character"
	CookieMaxAge = 365 * 24 * 60 * 60
	// CharacterKey 是gin上下文中存放当前角色标识的键。
	CharacterKey = "character"
)

// RequireCharacterMiddleware 读取角色cookie并校验它是两位角色之一，
// 否则返回401，提示客户端先完成角色选择。
func RequireCharacterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		name, err := c.Cookie(CookieName)
		if err != nil || !config.Cfg.App.IsCharacter(name) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先选择角色"})
			return
		}
		c.Set(CharacterKey, name)
		c.Next()
	}
}

// FromContext 从gin上下文取出当前角色标识。
func FromContext(c *gin.Context) string {
	return c.GetString(CharacterKey)
}
