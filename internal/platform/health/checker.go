package health

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/startup"
	"github.com/MoyuStudio/focus-duo-backend/pkg/lifecycle"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

var runIDPattern = regexp.MustCompile(`run_id:([a-f0-9]+)`)

// getRedisRunID 从Redis服务器信息中提取run_id。
// run_id在Redis每次重启后都会变化，是检测"实时状态树被清空"的依据。
func getRedisRunID() (string, error) {
	ctx, cancel := context.WithTimeout(database.Ctx, pingTimeout)
	defer cancel()
	info, err := database.RDB.Info(ctx, "server").Result()
	if err != nil {
		return "", err
	}
	matches := runIDPattern.FindStringSubmatch(info)
	if len(matches) < 2 {
		return "", fmt.Errorf("无法在Redis INFO中找到run_id")
	}
	return matches[1], nil
}

// InitializeRunID 在应用启动时执行一次，获取并设置初始的run_id。
func InitializeRunID() {
	runID, err := getRedisRunID()
	if err != nil {
		panic(fmt.Sprintf("无法在启动时获取Redis Run ID，请检查Redis服务: %v", err))
	}
	database.UpdateStatus(true, runID)
	logger.L().Info("获取初始Redis Run ID成功", zap.String("runID", runID))
}

// triggerAtomicRebuild 在检测到Redis重启后重建实时状态树，
// 并通过再次比对run_id确认重建期间Redis没有又一次重启。
func triggerAtomicRebuild(idBeforeRebuild string) bool {
	logger.L().Warn("健康检查: 正在重建实时状态树...")
	if err := startup.RebuildLiveState(); err != nil {
		logger.L().Error("健康检查: 实时状态树重建失败", zap.Error(err))
		return false
	}

	idAfterRebuild, err := getRedisRunID()
	if err != nil {
		logger.L().Error("健康检查: 重建后无法连接到Redis，重建无效")
		return false
	}
	if idBeforeRebuild != idAfterRebuild {
		logger.L().Error("健康检查: 重建期间Redis再次重启，重建无效",
			zap.String("before", idBeforeRebuild), zap.String("after", idAfterRebuild))
		return false
	}

	logger.L().Info("健康检查: 实时状态树重建成功")
	return true
}

// PerformCheck 执行一次健康检查和可能的修复。
func PerformCheck() {
	currentRunID, err := getRedisRunID()
	if err != nil {
		database.UpdateStatus(false, "")
		return
	}

	if currentRunID != database.GetLastKnownRunID() {
		if triggerAtomicRebuild(currentRunID) {
			database.UpdateStatus(true, currentRunID)
		} else {
			database.UpdateStatus(false, "")
		}
		return
	}
	database.UpdateStatus(true, currentRunID)
}

// StartRedisHealthCheck 启动后台健康检查循环。
func StartRedisHealthCheck(handle *lifecycle.Handle) {
	defer handle.Close()
	logger.L().Info("Redis健康检查器已启动")

	for {
		if err := handle.Sleep(checkInterval); err != nil {
			return
		}
		PerformCheck()
	}
}

// GetHealth 处理 GET /api/health。
func GetHealth(c *gin.Context) {
	healthy := database.IsRedisHealthy()
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"redisHealthy": healthy})
}
