package presence

import (
	"io"
	"net/http"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/character"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/pubsub"
	"github.com/MoyuStudio/focus-duo-backend/internal/reward"
	"github.com/MoyuStudio/focus-duo-backend/internal/session"
	"github.com/MoyuStudio/focus-duo-backend/internal/userstate"
	"github.com/MoyuStudio/focus-duo-backend/pkg/lifecycle"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// hubDone 在停机时关闭，让所有推送连接退出。
// 未启动时为nil，select会永远阻塞在它上面，不影响行为。
var hubDone <-chan struct{}

// StartHub 把实时推送接入生命周期管理。
func StartHub(handle *lifecycle.Handle) {
	hubDone = handle.Done()
	go func() {
		defer handle.Close()
		<-handle.Done()
	}()
}

func noticeTTLs() NoticeTTLs {
	app := config.Cfg.App
	return NoticeTTLs{
		Joined:  app.JoinedNoticeSeconds,
		Online:  app.OnlineNoticeSeconds,
		Offline: app.OfflineNoticeSeconds,
	}
}

// Feed 处理 GET /api/live/feed，一条SSE长连接。
//
// 连接建立即视为上线：结算掉离线期间遗留的悬挂运行，置isOnline，
// 然后订阅搭档的状态频道和自己的收件箱频道。连接断开触发
// presence挂钩：置离线并结算自己的悬挂运行。
//
// 推送的事件：
//   partner  搭档的最新状态快照(按写入顺序)
//   notice   presence状态机产出的通知(含到期清除)
//   mailbox  收件箱投递(取走即清空，至多一次)
func Feed(c *gin.Context) {
	me := character.FromContext(c)
	partnerName, err := config.Cfg.App.PartnerOf(me)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 重连时先关掉上一段浏览器会话留下的运行
	if s, err := userstate.GetState(me); err == nil && !s.IsOnline && s.InRun() {
		if _, err := session.Settle(me, time.Now()); err != nil {
			logger.L().Warn("重连时结算悬挂会话失败", zap.String("character", me), zap.Error(err))
		}
	}

	if _, err := userstate.SetOnline(me, true); err != nil {
		logger.L().Error("上线标记失败", zap.String("character", me), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "实时存储暂时不可用"})
		return
	}
	defer func() {
		if _, err := userstate.SetOnline(me, false); err != nil {
			logger.L().Warn("离线标记失败", zap.String("character", me), zap.Error(err))
		}
		if err := session.CloseDanglingRun(me, time.Now()); err != nil {
			logger.L().Warn("断开时结算会话失败", zap.String("character", me), zap.Error(err))
		}
	}()

	events := make(chan sse.Event, 64)
	push := func(name string, data interface{}) {
		select {
		case events <- sse.Event{Event: name, Data: data}:
		default:
			// 客户端消费太慢时丢弃，快照类事件随后会被新值补上
		}
	}

	notifier := NewNotifier(me, func(ev Event) { push("notice", ev) })
	defer notifier.Close()

	// 初始快照与积压的收件箱载荷
	partnerState, err := userstate.GetState(partnerName)
	if err != nil {
		logger.L().Error("读取搭档状态失败", zap.String("character", me), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "实时存储暂时不可用"})
		return
	}
	prev := ViewOf(partnerState)
	push("partner", partnerState)
	for _, r := range reward.Drain(me) {
		push("mailbox", r)
	}

	ttl := noticeTTLs()
	stop := pubsub.Subscribe(func(channel, payload string) {
		switch channel {
		case userstate.StateChannel(partnerName):
			next, ok := userstate.DecodeSnapshot(payload)
			if !ok {
				return
			}
			push("partner", next)

			selfView := ViewIdle
			if selfState, err := userstate.GetState(me); err == nil {
				selfView = ViewOf(selfState)
			}
			nextView := ViewOf(next)
			notifier.Apply(Reduce(prev, nextView, selfView, partnerName, ttl))
			prev = nextView
		case userstate.MailboxChannel(me):
			for _, r := range reward.Drain(me) {
				push("mailbox", r)
			}
		}
	}, userstate.StateChannel(partnerName), userstate.MailboxChannel(me))
	defer stop()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case <-hubDone:
			return false
		case ev := <-events:
			c.Render(-1, ev)
			return true
		}
	})
}
