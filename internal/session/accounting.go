package session

import (
	"github.com/MoyuStudio/focus-duo-backend/internal/userstate"
	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
)

// Settlement 是一次会话结算的计算结果。
// Settled为false表示结束方当时并不处于运行中(重复触发或从未开始)，
// 此时不产生任何统计变更。
type Settlement struct {
	Settled       bool
	SelfSeconds   int64
	JointSeconds  int64
	FinalPausedMs int64
}

// ComputeSettlement 根据双方状态的一次一致快照计算结算结果。
// 纯函数：给自己记多少秒、给共同计数器记多少秒，全部在这里决定。
//
// 共同时长的口径：双方的开始时间各自向后平移累计暂停时长得到
// 等效开始时间，取较晚者作为共同区间的起点；暂停过的部分因此
// 不会计入重叠。
func ComputeSettlement(self, partner userstate.UserState, nowMs int64) Settlement {
	if !self.InRun() {
		return Settlement{}
	}

	finalPaused := self.FinalPausedMs(nowMs)
	st := Settlement{Settled: true, FinalPausedMs: finalPaused}

	if elapsed := nowMs - self.FocusStartMs - finalPaused; elapsed > 0 {
		st.SelfSeconds = elapsed / 1000
	}

	if partner.InRun() {
		partnerPaused := partner.FinalPausedMs(nowMs)
		selfStart := clock.EffectiveStartMs(self.FocusStartMs, finalPaused)
		partnerStart := clock.EffectiveStartMs(partner.FocusStartMs, partnerPaused)
		jointStart := selfStart
		if partnerStart > jointStart {
			jointStart = partnerStart
		}
		if overlap := nowMs - jointStart; overlap > 0 {
			st.JointSeconds = overlap / 1000
		}
	}

	return st
}
