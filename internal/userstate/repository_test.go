package userstate

import (
	"testing"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupLiveStore(t *testing.T) {
	t.Helper()
	s := miniredis.RunT(t)
	database.RDB = redis.NewClient(&redis.Options{Addr: s.Addr()})
}

// presence翻转只允许写isOnline一个字段。整状态的读-改-写
// 会在和结算并发时用过期快照复活已复位的运行字段。
func TestSetOnlineWritesOnlyPresenceField(t *testing.T) {
	setupLiveStore(t)

	if _, err := SetOnline("mio", true); err != nil {
		t.Fatalf("SetOnline: %v", err)
	}

	raw, err := database.RDB.HGetAll(database.Ctx, StateKey("mio")).Result()
	if err != nil {
		t.Fatalf("HGetAll: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("上线标记写入了 %d 个字段 %v，只应写入isOnline", len(raw), raw)
	}
	if raw[fieldIsOnline] != "1" {
		t.Fatalf("isOnline = %q, want \"1\"", raw[fieldIsOnline])
	}
}

func TestSetOnlinePreservesRunningState(t *testing.T) {
	setupLiveStore(t)

	running := UserState{
		Character:     "mio",
		FocusState:    clock.StateFocusing,
		FocusStartMs:  1_700_000_000_000,
		TotalPausedMs: 5_000,
	}
	if err := WriteState(running); err != nil {
		t.Fatalf("WriteState: %v", err)
	}

	got, err := SetOnline("mio", true)
	if err != nil {
		t.Fatalf("SetOnline: %v", err)
	}
	if !got.IsOnline {
		t.Fatal("翻转后快照应为在线")
	}
	if got.FocusState != clock.StateFocusing || got.FocusStartMs != running.FocusStartMs || got.TotalPausedMs != running.TotalPausedMs {
		t.Fatalf("运行字段被presence翻转改写: %+v", got)
	}
}
