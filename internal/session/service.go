package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/internal/stats"
	"github.com/MoyuStudio/focus-duo-backend/internal/userstate"
	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFocusing 表示操作要求角色正处于专注中。
	ErrNotFocusing = errors.New("当前不在专注中")
	// ErrNotPaused 表示操作要求角色正处于暂停中。
	ErrNotPaused = errors.New("当前不在暂停中")
)

// 每个角色一把结算锁。幂等判断依赖"读到的状态还在运行中"，
// 两个并发触发(显式结束 + 断线挂钩)如果都在管道执行前完成快照读，
// 会各自给计数器加一遍。单进程服务器用互斥锁串行化即可。
var (
	settleMu    sync.Mutex
	settleLocks = make(map[string]*sync.Mutex)
)

func settleLock(character string) *sync.Mutex {
	settleMu.Lock()
	defer settleMu.Unlock()
	if _, ok := settleLocks[character]; !ok {
		settleLocks[character] = &sync.Mutex{}
	}
	return settleLocks[character]
}

// StartRun 开始一次新的专注运行。
// 如果存量状态里还挂着一次未结束的运行(比如浏览器崩溃留下的悬挂会话)，
// 先用常规结算流程把它关掉，再开新的。
func StartRun(character string, now time.Time) (userstate.UserState, error) {
	current, err := userstate.GetState(character)
	if err != nil {
		return userstate.UserState{}, err
	}
	if current.InRun() {
		if _, err := Settle(character, now); err != nil {
			return userstate.UserState{}, fmt.Errorf("无法关闭悬挂会话: %w", err)
		}
	}

	fresh := userstate.UserState{
		Character:    character,
		FocusState:   clock.StateFocusing,
		FocusStartMs: now.UnixMilli(),
		IsOnline:     current.IsOnline,
	}
	if err := userstate.WriteState(fresh); err != nil {
		return userstate.UserState{}, err
	}
	return fresh, nil
}

// PauseRun 暂停当前运行。只允许从focusing进入paused。
func PauseRun(character string, now time.Time) (userstate.UserState, error) {
	s, err := userstate.GetState(character)
	if err != nil {
		return userstate.UserState{}, err
	}
	if s.FocusState != clock.StateFocusing || !s.InRun() {
		return userstate.UserState{}, ErrNotFocusing
	}

	s.FocusState = clock.StatePaused
	s.LastPauseStartMs = now.UnixMilli()
	if err := userstate.WriteState(s); err != nil {
		return userstate.UserState{}, err
	}
	return s, nil
}

// ResumeRun 恢复暂停中的运行，把这一段暂停时长计入累计暂停。
func ResumeRun(character string, now time.Time) (userstate.UserState, error) {
	s, err := userstate.GetState(character)
	if err != nil {
		return userstate.UserState{}, err
	}
	if s.FocusState != clock.StatePaused {
		return userstate.UserState{}, ErrNotPaused
	}

	if s.LastPauseStartMs > 0 && now.UnixMilli() > s.LastPauseStartMs {
		s.TotalPausedMs += now.UnixMilli() - s.LastPauseStartMs
	}
	s.FocusState = clock.StateFocusing
	s.LastPauseStartMs = 0
	if err := userstate.WriteState(s); err != nil {
		return userstate.UserState{}, err
	}
	return s, nil
}

// Settle 执行会话结束结算(spec里的End操作，也是悬挂会话的清理路径)。
//
// 流程：一次一致快照读双方状态 -> 纯函数计算本人秒数和共同秒数 ->
// 一个Redis事务管道完成"自增本人计数器 + 自增joint计数器 + 复位运行字段 +
// 发布新快照"的原子多键更新。自增一律用HIncrBy，两个会话并发结算
// 同一个计数器也不会丢更新。
//
// 幂等：重复触发时第二次读到的状态已经是idle，直接无操作返回。
// 同一角色的结算全程持锁，保证"快照读+管道写"整体原子。
func Settle(character string, now time.Time) (Settlement, error) {
	partnerName, err := config.Cfg.App.PartnerOf(character)
	if err != nil {
		return Settlement{}, err
	}

	lock := settleLock(character)
	lock.Lock()
	defer lock.Unlock()

	self, partner, err := userstate.GetPair(character, partnerName)
	if err != nil {
		return Settlement{}, err
	}

	nowMs := now.UnixMilli()
	st := ComputeSettlement(self, partner, nowMs)
	if !st.Settled {
		return st, nil
	}

	cycleDate := clock.CycleDateKey(nowMs, config.Cfg.App.CycleOffset())
	reset := userstate.UserState{
		Character:  character,
		FocusState: clock.StateIdle,
		IsOnline:   self.IsOnline,
	}

	pipe := database.RDB.TxPipeline()
	stats.IncrInPipe(pipe, cycleDate, character, st.SelfSeconds)
	stats.IncrInPipe(pipe, cycleDate, stats.JointSubject, st.JointSeconds)
	userstate.ApplyInPipe(pipe, reset)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return Settlement{}, fmt.Errorf("会话结算写入失败: %w", err)
	}

	archiveRecord(self, st, cycleDate, now)
	return st, nil
}

// archiveRecord 把完成的运行写入归档库。尽力而为，失败只记日志。
func archiveRecord(self userstate.UserState, st Settlement, cycleDate string, endAt time.Time) {
	if st.SelfSeconds <= 0 {
		return
	}
	id, err := uuid.NewV7()
	if err != nil {
		logger.L().Warn("无法生成归档记录ID", zap.Error(err))
		return
	}
	record := SessionRecord{
		ID:           id.String(),
		Character:    self.Character,
		CycleDate:    cycleDate,
		StartAt:      time.UnixMilli(self.FocusStartMs),
		EndAt:        endAt,
		PausedMs:     st.FinalPausedMs,
		FocusSeconds: st.SelfSeconds,
		JointSeconds: st.JointSeconds,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		logger.L().Warn("归档专注记录失败",
			zap.String("character", self.Character), zap.Error(err))
	}
}

// CloseDanglingRun 检查一个角色是否挂着未结束的运行，有则走结算关闭。
// 在角色重新连接和服务启动时调用。
func CloseDanglingRun(character string, now time.Time) error {
	s, err := userstate.GetState(character)
	if err != nil {
		return err
	}
	if !s.InRun() {
		return nil
	}
	logger.L().Info("检测到悬挂会话，正在结算关闭", zap.String("character", character))
	_, err = Settle(character, now)
	return err
}
