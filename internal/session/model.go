package session

import "time"

// SessionRecord 是一次已完成专注运行的归档行。
// 结算的权威副本在Redis的每日计数器里，这张表只用于历史追溯，
// 写入失败不会影响结算本身。
type SessionRecord struct {
	// ID 是UUID v7，按时间有序。
	ID string `gorm:"primarykey;type:varchar(36)"`

	Character    string `gorm:"size:32;index"`
	CycleDate    string `gorm:"size:10;index"`
	StartAt      time.Time
	EndAt        time.Time
	PausedMs     int64
	FocusSeconds int64
	JointSeconds int64

	CreatedAt time.Time
}
