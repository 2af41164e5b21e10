package userstate

import (
	"fmt"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
	"github.com/redis/go-redis/v9"
)

// GetState 读取单个角色的实时状态。
func GetState(character string) (UserState, error) {
	raw, err := database.RDB.HGetAll(database.Ctx, StateKey(character)).Result()
	if err != nil {
		return UserState{}, fmt.Errorf("无法读取角色 %s 的状态: %w", character, err)
	}
	return decodeState(character, raw), nil
}

// GetPair 在同一个事务管道里读取双方的状态，得到一次一致的快照。
// 会话结算必须用它，而不是两次独立读取。
func GetPair(self, partner string) (UserState, UserState, error) {
	pipe := database.RDB.TxPipeline()
	selfCmd := pipe.HGetAll(database.Ctx, StateKey(self))
	partnerCmd := pipe.HGetAll(database.Ctx, StateKey(partner))
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return UserState{}, UserState{}, fmt.Errorf("无法读取双方状态快照: %w", err)
	}
	return decodeState(self, selfCmd.Val()), decodeState(partner, partnerCmd.Val()), nil
}

// ApplyInPipe 把一个完整状态的写入和快照发布追加到外部事务管道中。
// 会话结算用它把状态复位和统计自增合并成一次原子多键更新。
func ApplyInPipe(pipe redis.Pipeliner, s UserState) {
	pipe.HSet(database.Ctx, StateKey(s.Character), s.fields())
	pipe.Publish(database.Ctx, StateChannel(s.Character), s.Encode())
}

// WriteState 原子地写入一个角色的完整状态并发布最新快照。
func WriteState(s UserState) error {
	pipe := database.RDB.TxPipeline()
	ApplyInPipe(pipe, s)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("无法写入角色 %s 的状态: %w", s.Character, err)
	}
	return nil
}

// SetOnline 更新角色的在线标志并发布翻转后的快照。
// 只写isOnline这一个字段：presence翻转可能和会话结算并发，
// 整状态的读-改-写会用过期快照把结算刚复位的运行字段写回去，
// 导致同一次运行被结算两次。运行字段的复位只属于结算管道。
func SetOnline(character string, online bool) (UserState, error) {
	flag := "0"
	if online {
		flag = "1"
	}
	if err := database.RDB.HSet(database.Ctx, StateKey(character), fieldIsOnline, flag).Err(); err != nil {
		return UserState{}, fmt.Errorf("无法更新角色 %s 的在线标志: %w", character, err)
	}

	s, err := GetState(character)
	if err != nil {
		return UserState{}, err
	}
	if err := database.RDB.Publish(database.Ctx, StateChannel(s.Character), s.Encode()).Err(); err != nil {
		return UserState{}, fmt.Errorf("无法发布角色 %s 的状态快照: %w", s.Character, err)
	}
	return s, nil
}

// ResetNode 在角色被选定(入驻)时重建它的状态节点：
// 运行相关字段全部清零，在线标志保持原样。幂等。
func ResetNode(character string) error {
	s, err := GetState(character)
	if err != nil {
		return err
	}
	fresh := UserState{Character: character, FocusState: clock.StateIdle, IsOnline: s.IsOnline}
	return WriteState(fresh)
}
