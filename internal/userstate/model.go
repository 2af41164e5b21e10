package userstate

import (
	"encoding/json"
	"strconv"

	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
)

// UserState 是一个角色在实时存储中的完整状态节点。
// 不变量：FocusStartMs非零 当且仅当 状态为focusing或paused；
// LastPauseStartMs非零 当且仅当 状态为paused。
type UserState struct {
	Character        string           `json:"character"`
	FocusState       clock.FocusState `json:"focusState"`
	FocusStartMs     int64            `json:"focusStartMs"`
	TotalPausedMs    int64            `json:"totalPausedMs"`
	LastPauseStartMs int64            `json:"lastPauseStartMs"`
	IsOnline         bool             `json:"isOnline"`
}

// InRun 判断该角色是否处于一次专注运行中(专注中或暂停中)。
func (s UserState) InRun() bool {
	return (s.FocusState == clock.StateFocusing || s.FocusState == clock.StatePaused) && s.FocusStartMs > 0
}

// FinalPausedMs 计算到now为止的累计暂停毫秒数，
// 包含正在进行中的这一段暂停。
func (s UserState) FinalPausedMs(nowMs int64) int64 {
	paused := s.TotalPausedMs
	if s.FocusState == clock.StatePaused && s.LastPauseStartMs > 0 {
		paused += nowMs - s.LastPauseStartMs
	}
	return paused
}

// ElapsedSeconds 返回当前运行到now为止的有效专注秒数。
func (s UserState) ElapsedSeconds(nowMs int64) int64 {
	return clock.ElapsedFocusSeconds(s.FocusState, s.FocusStartMs, s.TotalPausedMs, s.LastPauseStartMs, nowMs)
}

// fields 把状态编码为Redis哈希的字段表。
func (s UserState) fields() map[string]interface{} {
	online := "0"
	if s.IsOnline {
		online = "1"
	}
	return map[string]interface{}{
		fieldFocusState:     string(s.FocusState),
		fieldFocusStartMs:   strconv.FormatInt(s.FocusStartMs, 10),
		fieldTotalPausedMs:  strconv.FormatInt(s.TotalPausedMs, 10),
		fieldLastPauseStart: strconv.FormatInt(s.LastPauseStartMs, 10),
		fieldIsOnline:       online,
	}
}

// decodeState 从Redis哈希还原状态。缺失或畸形的字段一律退回
// 安静的零值(空闲、离线)，绝不报错。
func decodeState(character string, raw map[string]string) UserState {
	s := UserState{Character: character, FocusState: clock.StateIdle}

	switch clock.FocusState(raw[fieldFocusState]) {
	case clock.StateFocusing:
		s.FocusState = clock.StateFocusing
	case clock.StatePaused:
		s.FocusState = clock.StatePaused
	}
	s.FocusStartMs = parseMs(raw[fieldFocusStartMs])
	s.TotalPausedMs = parseMs(raw[fieldTotalPausedMs])
	s.LastPauseStartMs = parseMs(raw[fieldLastPauseStart])
	s.IsOnline = raw[fieldIsOnline] == "1"

	// 快照不满足不变量时按空闲处理，避免把脏数据当成运行
	if s.FocusState != clock.StateIdle && s.FocusStartMs <= 0 {
		s.FocusState = clock.StateIdle
		s.TotalPausedMs = 0
		s.LastPauseStartMs = 0
	}
	return s
}

func parseMs(v string) int64 {
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Encode 把状态序列化为发布到状态频道的JSON。
func (s UserState) Encode() string {
	b, _ := json.Marshal(s)
	return string(b)
}

// DecodeSnapshot 解析状态频道上发布的JSON快照。
func DecodeSnapshot(payload string) (UserState, bool) {
	var s UserState
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return UserState{}, false
	}
	return s, true
}
