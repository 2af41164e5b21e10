package session

import (
	"sync"
	"testing"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/internal/stats"
	"github.com/MoyuStudio/focus-duo-backend/internal/userstate"
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
	if err := db.AutoMigrate(&SessionRecord{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	database.DB = db

	config.Cfg = &config.Config{App: config.AppConfig{
		CharacterA:       "mio",
		CharacterB:       "yuki",
		CycleOffsetHours: 5,
	}}
}

func seedFocusing(t *testing.T, character string, startedAgo time.Duration, now time.Time) {
	t.Helper()
	err := userstate.WriteState(userstate.UserState{
		Character:    character,
		FocusState:   clock.StateFocusing,
		FocusStartMs: now.Add(-startedAgo).UnixMilli(),
		IsOnline:     true,
	})
	if err != nil {
		t.Fatalf("写入初始状态失败: %v", err)
	}
}

func dailyCounter(t *testing.T, now time.Time, subject string) string {
	t.Helper()
	cycleDate := clock.CycleDateKey(now.UnixMilli(), config.Cfg.App.CycleOffset())
	got, err := database.RDB.HGet(database.Ctx, stats.DailyKey(cycleDate), subject).Result()
	if err != nil {
		t.Fatalf("读取每日计数器失败: %v", err)
	}
	return got
}

func TestSettleTwiceCreditsOnce(t *testing.T) {
	setupStores(t)
	now := time.Now()
	seedFocusing(t, "mio", 30*time.Second, now)

	first, err := Settle("mio", now)
	if err != nil {
		t.Fatalf("第一次结算: %v", err)
	}
	if !first.Settled || first.SelfSeconds != 30 {
		t.Fatalf("第一次结算 = %+v, want settled 30s", first)
	}

	second, err := Settle("mio", now)
	if err != nil {
		t.Fatalf("第二次结算: %v", err)
	}
	if second.Settled {
		t.Fatalf("重复结算应为无操作, got %+v", second)
	}

	if got := dailyCounter(t, now, "mio"); got != "30" {
		t.Fatalf("每日计数器 = %s, want 30", got)
	}
}

// 显式结束和断线挂钩可能同时触发同一角色的结算。
// 不论多少个并发触发，同一次运行只允许入账一次。
func TestSettleConcurrentTriggersCreditOnce(t *testing.T) {
	setupStores(t)
	now := time.Now()
	seedFocusing(t, "mio", 30*time.Second, now)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Settle("mio", now); err != nil {
				t.Errorf("并发结算: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := dailyCounter(t, now, "mio"); got != "30" {
		t.Fatalf("并发结算后每日计数器 = %s, want 30", got)
	}
}
