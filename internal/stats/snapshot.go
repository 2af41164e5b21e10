package stats

import (
	"fmt"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
	"github.com/MoyuStudio/focus-duo-backend/pkg/lifecycle"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

const snapshotInterval = time.Minute

// snapshotDays 是每次快照覆盖的周期日数量。
// 除了当天，还要带上前一天，覆盖周期日边界附近的结算。
const snapshotDays = 2

// SnapshotToArchive 把最近几天的实时计数器镜像到归档数据库。
// Redis里的值是权威数据，这里做的是整值upsert而不是累加。
func SnapshotToArchive(now time.Time) error {
	offset := config.Cfg.App.CycleOffset()
	for i := 0; i < snapshotDays; i++ {
		cycleDate := clock.CycleDateKey(now.AddDate(0, 0, -i).UnixMilli(), offset)
		live, err := readLiveDay(cycleDate)
		if err != nil {
			return err
		}
		for subject, seconds := range live {
			row := DailyStat{CycleDate: cycleDate, Subject: subject, TotalFocusTime: seconds}
			err := database.DB.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "cycle_date"}, {Name: "subject"}},
				DoUpdates: clause.AssignmentColumns([]string{"total_focus_time", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("无法写入统计快照 %s/%s: %w", cycleDate, subject, err)
			}
		}
	}
	return nil
}

// WarmupFromArchive 把最近的快照值灌回实时计数器。
// 只回填Redis里不存在的周期日：实时计数器是权威数据，
// 崩溃重启后它可能比上一次快照更新，已存在的哈希绝不能被覆盖。
func WarmupFromArchive(now time.Time) error {
	offset := config.Cfg.App.CycleOffset()
	for i := 0; i < snapshotDays; i++ {
		cycleDate := clock.CycleDateKey(now.AddDate(0, 0, -i).UnixMilli(), offset)

		exists, err := database.RDB.Exists(database.Ctx, DailyKey(cycleDate)).Result()
		if err != nil {
			return fmt.Errorf("无法检查 %s 的实时计数器: %w", cycleDate, err)
		}
		if exists > 0 {
			continue
		}

		var rows []DailyStat
		if err := database.DB.Where("cycle_date = ?", cycleDate).Find(&rows).Error; err != nil {
			return fmt.Errorf("无法读取 %s 的统计快照: %w", cycleDate, err)
		}
		if len(rows) == 0 {
			continue
		}

		fields := make(map[string]interface{}, len(rows))
		for _, row := range rows {
			fields[row.Subject] = row.TotalFocusTime
		}
		if err := database.RDB.HSet(database.Ctx, DailyKey(cycleDate), fields).Err(); err != nil {
			return fmt.Errorf("预热统计计数器失败: %w", err)
		}
	}
	return nil
}

// StartSnapshotLoop 启动后台快照循环，定期把实时计数器刷进归档库。
func StartSnapshotLoop(handle *lifecycle.Handle) {
	defer handle.Close()
	logger.L().Info("每日统计快照服务已启动")

	for {
		if err := handle.Sleep(snapshotInterval); err != nil {
			return
		}
		if !database.IsRedisHealthy() {
			continue
		}
		if err := SnapshotToArchive(time.Now()); err != nil {
			logger.L().Warn("统计快照失败", zap.Error(err))
		}
	}
}
