package reward

import (
	"errors"
	"net/http"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/character"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SendRequestBody 是发送奖励/留言的请求体。
type SendRequestBody struct {
	Kind         Kind   `json:"kind" binding:"required"`
	Emoji        string `json:"emoji"`
	Text         string `json:"text"`
	VoiceDataURI string `json:"voiceDataUri"`
	VoiceSeconds int    `json:"voiceSeconds"`
}

// SendReward 处理 POST /api/rewards/send。
// 存储写入失败对发送方是可见错误(弹提示)，不做自动重试。
func SendReward(c *gin.Context) {
	var body SendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	me := character.FromContext(c)
	sent, err := Send(me, Reward{
		Kind:         body.Kind,
		Emoji:        body.Emoji,
		Text:         body.Text,
		VoiceDataURI: body.VoiceDataURI,
		VoiceSeconds: body.VoiceSeconds,
	}, time.Now())
	if errors.Is(err, ErrInvalidPayload) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.L().Error("发送奖励失败", zap.String("sender", me), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "发送失败，请稍后重试"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": sent.ID, "sentAtMs": sent.SentAtMs})
}

// ConsumeInbox 处理 POST /api/rewards/consume：
// 显式取走自己收件箱里积压的载荷(正常路径由实时推送自动补投)。
func ConsumeInbox(c *gin.Context) {
	me := character.FromContext(c)
	drained := Drain(me)
	if drained == nil {
		drained = []Reward{}
	}
	c.JSON(http.StatusOK, gin.H{"items": drained})
}
