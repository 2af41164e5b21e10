package startup

import (
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/internal/session"
	"github.com/MoyuStudio/focus-duo-backend/internal/stats"
	"github.com/MoyuStudio/focus-duo-backend/internal/userstate"
	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
)

// InitializeApplication 是应用首次启动时执行的总入口。
func InitializeApplication() error {
	logger.L().Info("开始应用初始化...")

	if err := stats.PrimeModule(); err != nil {
		return err
	}
	if err := session.PrimeModule(); err != nil {
		return err
	}
	// 进程刚启动时没有任何活跃连接，双方一律视为离线
	if err := resetPresence(); err != nil {
		return err
	}

	logger.L().Info("应用初始化完成")
	return nil
}

// RebuildLiveState 在运行时重建Redis里的实时状态树。
// 由健康检查器在检测到Redis重启(状态树被清空)后调用：
// 统计计数器从归档快照恢复，角色状态重置为空闲——
// 运行中的会话无法跨越Redis重启，客户端会收到复位后的快照。
func RebuildLiveState() error {
	if err := stats.WarmupFromArchive(time.Now()); err != nil {
		return err
	}
	return resetPresence()
}

// resetPresence 把两位角色的状态节点重置为空闲且离线。
func resetPresence() error {
	for _, ch := range config.Cfg.App.Characters() {
		fresh := userstate.UserState{Character: ch, FocusState: clock.StateIdle}
		if err := userstate.WriteState(fresh); err != nil {
			return err
		}
	}
	return nil
}
