package presence

import (
	"github.com/MoyuStudio/focus-duo-backend/internal/userstate"
	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
)

// View 是从远端快照派生出来的角色可见状态。
// 离线优先于专注状态：isOnline为false时一律视为offline。
type View string

const (
	ViewOffline  View = "offline"
	ViewIdle     View = "idle"
	ViewFocusing View = "focusing"
	ViewPaused   View = "paused"
)

// ViewOf 把一份UserState快照映射为可见状态。
func ViewOf(s userstate.UserState) View {
	if !s.IsOnline {
		return ViewOffline
	}
	switch s.FocusState {
	case clock.StateFocusing:
		return ViewFocusing
	case clock.StatePaused:
		return ViewPaused
	default:
		return ViewIdle
	}
}
