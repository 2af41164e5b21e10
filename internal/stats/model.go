package stats

import "time"

// DailyStat 是每日统计在归档数据库中的快照行。
// Redis中的实时计数器是权威数据，这张表定期镜像它，
// 用于Redis重启后的恢复和历史趋势查询。
type DailyStat struct {
	ID             uint   `gorm:"primarykey"`
	CycleDate      string `gorm:"size:10;uniqueIndex:idx_day_subject"`
	Subject        string `gorm:"size:32;uniqueIndex:idx_day_subject"`
	TotalFocusTime int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
