package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/character"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/internal/userstate"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// stateResponse 是状态类接口统一返回的JSON结构。
type stateResponse struct {
	Character      string `json:"character"`
	FocusState     string `json:"focusState"`
	FocusStartMs   int64  `json:"focusStartMs,omitempty"`
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	IsOnline       bool   `json:"isOnline"`
}

func toResponse(s userstate.UserState, nowMs int64) stateResponse {
	return stateResponse{
		Character:      s.Character,
		FocusState:     string(s.FocusState),
		FocusStartMs:   s.FocusStartMs,
		ElapsedSeconds: s.ElapsedSeconds(nowMs),
		IsOnline:       s.IsOnline,
	}
}

func requireHealthyStore(c *gin.Context) bool {
	if database.IsRedisHealthy() {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "实时存储暂时不可用，请稍后重试"})
	return false
}

// Start 处理 POST /api/session/start。
func Start(c *gin.Context) {
	if !requireHealthyStore(c) {
		return
	}
	me := character.FromContext(c)
	now := time.Now()
	s, err := StartRun(me, now)
	if err != nil {
		logger.L().Error("开始专注失败", zap.String("character", me), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "开始专注失败"})
		return
	}
	c.JSON(http.StatusOK, toResponse(s, now.UnixMilli()))
}

// Pause 处理 POST /api/session/pause。
func Pause(c *gin.Context) {
	if !requireHealthyStore(c) {
		return
	}
	me := character.FromContext(c)
	now := time.Now()
	s, err := PauseRun(me, now)
	if errors.Is(err, ErrNotFocusing) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.L().Error("暂停专注失败", zap.String("character", me), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "暂停专注失败"})
		return
	}
	c.JSON(http.StatusOK, toResponse(s, now.UnixMilli()))
}

// Resume 处理 POST /api/session/resume。
func Resume(c *gin.Context) {
	if !requireHealthyStore(c) {
		return
	}
	me := character.FromContext(c)
	now := time.Now()
	s, err := ResumeRun(me, now)
	if errors.Is(err, ErrNotPaused) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.L().Error("恢复专注失败", zap.String("character", me), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "恢复专注失败"})
		return
	}
	c.JSON(http.StatusOK, toResponse(s, now.UnixMilli()))
}

// End 处理 POST /api/session/end，执行结算。重复触发安全。
func End(c *gin.Context) {
	if !requireHealthyStore(c) {
		return
	}
	me := character.FromContext(c)
	st, err := Settle(me, time.Now())
	if err != nil {
		logger.L().Error("会话结算失败", zap.String("character", me), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "结束专注失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settled":      st.Settled,
		"focusSeconds": st.SelfSeconds,
		"jointSeconds": st.JointSeconds,
	})
}

// GetState 处理 GET /api/session/state，返回双方的实时快照。
func GetState(c *gin.Context) {
	me := character.FromContext(c)
	partnerName, err := config.Cfg.App.PartnerOf(me)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	self, partner, err := userstate.GetPair(me, partnerName)
	if err != nil {
		logger.L().Error("读取状态快照失败", zap.String("character", me), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "实时存储暂时不可用"})
		return
	}

	nowMs := time.Now().UnixMilli()
	c.JSON(http.StatusOK, gin.H{
		"self":    toResponse(self, nowMs),
		"partner": toResponse(partner, nowMs),
	})
}
