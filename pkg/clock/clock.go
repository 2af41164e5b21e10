package clock

import "time"

// FocusState 表示一个角色当前的专注状态。
// 它同时被Redis中的实时状态和纯计算函数使用。
type FocusState string

const (
	StateIdle     FocusState = "idle"
	StateFocusing FocusState = "focusing"
	StatePaused   FocusState = "paused"
)

// DefaultCycleOffset 是"周期日"相对于UTC零点的默认偏移。
// 历史版本中出现过1小时和5小时两种取值，这里统一采用5小时，
// 可以通过配置覆盖。
const DefaultCycleOffset = 5 * time.Hour

// CycleDateKey 计算一个时间戳(毫秒)所属的周期日，返回"YYYY-MM-DD"。
// 周期日的边界不是UTC零点，而是零点之后offset处：
// 即 cycleDate(t) = UTC日期(t - offset)。
func CycleDateKey(tsMs int64, offset time.Duration) string {
	t := time.UnixMilli(tsMs).Add(-offset).UTC()
	return t.Format("2006-01-02")
}

// ElapsedFocusSeconds 计算一次专注运行到now为止的有效秒数。
// 暂停中的时间不计入；如果当前正处于暂停，进行中的这段暂停
// (now - pauseStartMs)也要先扣除。结果向下取整且永不为负。
// 该函数是纯函数，重复调用同样的输入得到同样的结果。
func ElapsedFocusSeconds(state FocusState, startMs, pausedMs, pauseStartMs, nowMs int64) int64 {
	if startMs <= 0 {
		return 0
	}
	effectivePaused := pausedMs
	if state == StatePaused && pauseStartMs > 0 {
		effectivePaused += nowMs - pauseStartMs
	}
	elapsed := nowMs - startMs - effectivePaused
	if elapsed < 0 {
		return 0
	}
	return elapsed / 1000
}

// EffectiveStartMs 返回把累计暂停时长折算进去之后的等效开始时间。
// 两个人的共同专注区间用各自的等效开始时间取max来对齐，
// 这样暂停的部分不会计入重叠时长。
func EffectiveStartMs(startMs, finalPausedMs int64) int64 {
	return startMs + finalPausedMs
}
