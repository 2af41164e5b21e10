package clock

import (
	"testing"
	"time"
)

func TestCycleDateKey(t *testing.T) {
	offset := 5 * time.Hour
	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{
			name: "afternoon stays on same date",
			ts:   time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
			want: "2025-03-10",
		},
		{
			name: "just before boundary belongs to previous day",
			ts:   time.Date(2025, 3, 10, 4, 59, 59, 0, time.UTC),
			want: "2025-03-09",
		},
		{
			name: "exactly at boundary starts the new day",
			ts:   time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC),
			want: "2025-03-10",
		},
		{
			name: "utc midnight belongs to previous cycle day",
			ts:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			want: "2025-03-09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CycleDateKey(tt.ts.UnixMilli(), offset)
			if got != tt.want {
				t.Errorf("CycleDateKey() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCycleDateKeyStableWithinWindow(t *testing.T) {
	// 同一个周期窗口内的任意时间戳必须映射到同一个键
	offset := 5 * time.Hour
	base := time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC)
	key := CycleDateKey(base.UnixMilli(), offset)
	for _, d := range []time.Duration{0, time.Second, 3 * time.Hour, 23*time.Hour + 59*time.Minute} {
		got := CycleDateKey(base.Add(d).UnixMilli(), offset)
		if got != key {
			t.Errorf("CycleDateKey(base+%v) = %s, want %s", d, got, key)
		}
	}
}

func TestElapsedFocusSeconds(t *testing.T) {
	const start = int64(1_000_000)
	tests := []struct {
		name         string
		state        FocusState
		startMs      int64
		pausedMs     int64
		pauseStartMs int64
		nowMs        int64
		want         int64
	}{
		{
			name:  "no start time returns zero",
			state: StateIdle,
			nowMs: start + 60_000,
			want:  0,
		},
		{
			name:    "plain focusing run",
			state:   StateFocusing,
			startMs: start,
			nowMs:   start + 30_000,
			want:    30,
		},
		{
			name:     "accumulated pause is deducted",
			state:    StateFocusing,
			startMs:  start,
			pausedMs: 5_000,
			nowMs:    start + 30_000,
			want:     25,
		},
		{
			name:         "ongoing pause freezes the clock",
			state:        StatePaused,
			startMs:      start,
			pausedMs:     0,
			pauseStartMs: start + 10_000,
			nowMs:        start + 18_000,
			want:         10,
		},
		{
			name:    "clock skew never goes negative",
			state:   StateFocusing,
			startMs: start,
			nowMs:   start - 2_000,
			want:    0,
		},
		{
			name:    "sub-second remainder is floored",
			state:   StateFocusing,
			startMs: start,
			nowMs:   start + 1_999,
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ElapsedFocusSeconds(tt.state, tt.startMs, tt.pausedMs, tt.pauseStartMs, tt.nowMs)
			if got != tt.want {
				t.Errorf("ElapsedFocusSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestElapsedFrozenWhilePausedThenResumes(t *testing.T) {
	const start = int64(1_000_000)
	pauseAt := start + 10_000

	// 暂停期间，墙上时钟前进但有效秒数不变
	atPause := ElapsedFocusSeconds(StatePaused, start, 0, pauseAt, pauseAt)
	later := ElapsedFocusSeconds(StatePaused, start, 0, pauseAt, pauseAt+40_000)
	if atPause != later {
		t.Errorf("elapsed advanced while paused: %d -> %d", atPause, later)
	}

	// 恢复后：暂停时长计入pausedMs，时钟立即继续走
	resumeAt := pauseAt + 5_000
	resumed := ElapsedFocusSeconds(StateFocusing, start, 5_000, 0, resumeAt+3_000)
	if resumed != atPause+3 {
		t.Errorf("elapsed after resume = %d, want %d", resumed, atPause+3)
	}
}

func TestElapsedIdempotent(t *testing.T) {
	const start = int64(1_000_000)
	a := ElapsedFocusSeconds(StateFocusing, start, 2_000, 0, start+50_000)
	b := ElapsedFocusSeconds(StateFocusing, start, 2_000, 0, start+50_000)
	if a != b {
		t.Errorf("repeated calls diverged: %d != %d", a, b)
	}
}
