package pubsub

import (
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"go.uber.org/zap"
)

// Handler 处理一条订阅到的消息。
type Handler func(channel, payload string)

// Subscribe 订阅一组频道，返回一个停止函数。
// 同一次订阅的所有消息在同一个goroutine里按发布顺序逐条交给handler，
// handler之间不需要加锁；断线后的重连和重新订阅由Redis客户端自己完成。
// handler不应该长时间阻塞，否则会拖慢这条订阅上的后续消息。
func Subscribe(handler Handler, channels ...string) func() {
	sub := database.RDB.Subscribe(database.Ctx, channels...)

	go func() {
		for msg := range sub.Channel() {
			handler(msg.Channel, msg.Payload)
		}
	}()

	return func() {
		if err := sub.Close(); err != nil {
			logger.L().Warn("关闭订阅失败", zap.Strings("channels", channels), zap.Error(err))
		}
	}
}
