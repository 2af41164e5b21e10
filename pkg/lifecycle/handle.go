package lifecycle

import (
	"context"
	"time"
)

// Handle 是分发给单个后台服务的生命周期句柄。
// 服务的goroutine退出前必须defer调用Close，通知Manager自己已经结束。
type Handle struct {
	ctx   context.Context
	Close func()
}

// Ctx 返回句柄内部的context，用于传递给阻塞的存储操作。
func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Done 返回停机信号channel，供select使用。
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Err 在停机信号发出后返回取消原因。
func (h *Handle) Err() error {
	return h.ctx.Err()
}

// Sleep 休眠指定时长；如果期间收到停机信号则提前返回错误。
// 后台循环里的所有休眠都应该用它，避免停机被定时器拖住。
func (h *Handle) Sleep(d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-h.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return h.Err()
	case <-timer.C:
		return nil
	}
}
