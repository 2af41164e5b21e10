package shutdown

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/internal/stats"
	"github.com/MoyuStudio/focus-duo-backend/pkg/lifecycle"
	"go.uber.org/zap"
)

// Coordinator 编排应用的优雅停机流程。
// 两个生命周期管理器对应两个停机阶段：先礼后兵。
type Coordinator struct {
	GracefulManager *lifecycle.Manager
	ForcefulManager *lifecycle.Manager
}

// NewCoordinator 创建一个停机协调器。
func NewCoordinator(gracefulMgr, forcefulMgr *lifecycle.Manager) *Coordinator {
	return &Coordinator{
		GracefulManager: gracefulMgr,
		ForcefulManager: forcefulMgr,
	}
}

// ListenForSignalsAndShutdown 阻塞监听停机信号，然后执行完整的停机流程。
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.L().Info("收到关闭信号，开始优雅停机...")

	// 先关HTTP服务器。SSE长连接会随服务器关闭而断开，
	// 各自的presence挂钩(置离线+结算)在断开时执行。
	httpTimeout := 15 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Warn("HTTP服务器关闭错误", zap.Error(err))
	}

	// 阶段一：优雅停机，等待后台服务收尾
	gracefulTimeout := 30 * time.Second
	c.GracefulManager.Shutdown()
	remaining := c.GracefulManager.WaitWithTimeout(gracefulTimeout)
	if len(remaining) > 0 {
		// 阶段二：强制停机
		logger.L().Warn("第一阶段超时，发送强制停机信号", zap.Strings("remaining", remaining))
		c.ForcefulManager.Shutdown()
		c.ForcefulManager.WaitWithTimeout(time.Second)
	}

	// 最终步骤：把实时计数器的最后状态刷进归档库
	if err := stats.SnapshotToArchive(time.Now()); err != nil {
		logger.L().Error("最终统计快照失败", zap.Error(err))
	} else {
		logger.L().Info("最终统计快照成功")
	}

	logger.L().Info("优雅停机完成")
}
