package stats

import (
	"strconv"
	"testing"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupStores(t *testing.T) {
	t.Helper()
	s := miniredis.RunT(t)
	database.RDB = redis.NewClient(&redis.Options{Addr: s.Addr()})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&DailyStat{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	database.DB = db

	config.Cfg = &config.Config{App: config.AppConfig{
		CharacterA:       "mio",
		CharacterB:       "yuki",
		CycleOffsetHours: 5,
	}}
}

func TestWarmupBackfillsMissingDay(t *testing.T) {
	setupStores(t)

	now := time.Now()
	cycleDate := clock.CycleDateKey(now.UnixMilli(), config.Cfg.App.CycleOffset())
	row := DailyStat{CycleDate: cycleDate, Subject: "mio", TotalFocusTime: 100}
	if err := database.DB.Create(&row).Error; err != nil {
		t.Fatalf("写入快照行失败: %v", err)
	}

	if err := WarmupFromArchive(now); err != nil {
		t.Fatalf("WarmupFromArchive: %v", err)
	}

	got, err := database.RDB.HGet(database.Ctx, DailyKey(cycleDate), "mio").Result()
	if err != nil {
		t.Fatalf("HGet: %v", err)
	}
	if got != "100" {
		t.Fatalf("回填后计数器 = %s, want 100", got)
	}
}

// 实时计数器是权威数据。崩溃重启后它可能比上一次分钟级快照更新，
// 预热绝不能把旧的归档值写到已存在的哈希上。
func TestWarmupKeepsExistingLiveCounters(t *testing.T) {
	setupStores(t)

	now := time.Now()
	cycleDate := clock.CycleDateKey(now.UnixMilli(), config.Cfg.App.CycleOffset())

	row := DailyStat{CycleDate: cycleDate, Subject: "mio", TotalFocusTime: 100}
	if err := database.DB.Create(&row).Error; err != nil {
		t.Fatalf("写入快照行失败: %v", err)
	}
	if err := database.RDB.HSet(database.Ctx, DailyKey(cycleDate), "mio", strconv.Itoa(500)).Err(); err != nil {
		t.Fatalf("HSet: %v", err)
	}

	if err := WarmupFromArchive(now); err != nil {
		t.Fatalf("WarmupFromArchive: %v", err)
	}

	got, err := database.RDB.HGet(database.Ctx, DailyKey(cycleDate), "mio").Result()
	if err != nil {
		t.Fatalf("HGet: %v", err)
	}
	if got != "500" {
		t.Fatalf("预热覆盖了实时计数器: got %s, want 500", got)
	}
}
