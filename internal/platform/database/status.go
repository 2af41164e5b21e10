package database

import (
	"sync"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"go.uber.org/zap"
)

// liveStoreStatus 记录实时存储的可用性和最近一次观测到的run_id。
// 健康检查器是唯一的写入方；会话结算等写路径读它来决定快速失败。
type liveStoreStatus struct {
	mu      sync.RWMutex
	healthy bool
	runID   string
}

var liveStore = &liveStoreStatus{healthy: true}

// IsRedisHealthy 返回实时存储当前是否可用。
// 不可用时结算、收件箱等写路径直接向调用方报错，不排队等恢复。
func IsRedisHealthy() bool {
	liveStore.mu.RLock()
	defer liveStore.mu.RUnlock()
	return liveStore.healthy
}

// UpdateStatus 更新实时存储的可用性。恢复可用时一并记录新的run_id，
// 下一轮健康检查据此判断状态树是否经历过重启清空。
func UpdateStatus(isHealthy bool, newRunID string) {
	liveStore.mu.Lock()
	defer liveStore.mu.Unlock()

	if liveStore.healthy != isHealthy {
		liveStore.healthy = isHealthy
		if isHealthy {
			logger.L().Info("实时存储恢复可用", zap.String("runID", newRunID))
		} else {
			logger.L().Warn("实时存储不可用，写路径将快速失败")
		}
	}

	if isHealthy {
		liveStore.runID = newRunID
	}
}

// GetLastKnownRunID 返回最近一次确认可用时的run_id。
func GetLastKnownRunID() string {
	liveStore.mu.RLock()
	defer liveStore.mu.RUnlock()
	return liveStore.runID
}
