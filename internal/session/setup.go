package session

import (
	"fmt"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
)

// migrateDB 负责自动迁移归档表结构。
func migrateDB() error {
	if err := database.DB.AutoMigrate(&SessionRecord{}); err != nil {
		return fmt.Errorf("无法迁移session_records表: %w", err)
	}
	return nil
}

// PrimeModule 是session模块的初始化入口：
// 建表，然后把上次进程留下的悬挂会话全部结算关闭。
func PrimeModule() error {
	if err := migrateDB(); err != nil {
		return err
	}
	now := time.Now()
	for _, ch := range config.Cfg.App.Characters() {
		if err := CloseDanglingRun(ch, now); err != nil {
			return fmt.Errorf("启动时关闭角色 %s 的悬挂会话失败: %w", ch, err)
		}
	}
	return nil
}
