package stats

import (
	"fmt"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
)

// migrateDB 负责自动迁移每日统计快照表。
func migrateDB() error {
	if err := database.DB.AutoMigrate(&DailyStat{}); err != nil {
		return fmt.Errorf("无法迁移daily_stats表: %w", err)
	}
	return nil
}

// PrimeModule 是stats模块的初始化入口：建表并把最近的快照灌回Redis。
func PrimeModule() error {
	if err := migrateDB(); err != nil {
		return err
	}
	return WarmupFromArchive(time.Now())
}
