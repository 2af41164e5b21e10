package userstate

import (
	"testing"

	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
)

func TestDecodeStateDefaultsToIdle(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
		want UserState
	}{
		{
			name: "empty hash",
			raw:  map[string]string{},
			want: UserState{Character: "mio", FocusState: clock.StateIdle},
		},
		{
			name: "garbage fields never error",
			raw: map[string]string{
				"focusState":   "banana",
				"focusStartMs": "not-a-number",
				"isOnline":     "yes",
			},
			want: UserState{Character: "mio", FocusState: clock.StateIdle},
		},
		{
			name: "focusing without start violates the invariant and falls back",
			raw: map[string]string{
				"focusState":    "focusing",
				"totalPausedMs": "5000",
			},
			want: UserState{Character: "mio", FocusState: clock.StateIdle},
		},
		{
			name: "well-formed running state",
			raw: map[string]string{
				"focusState":       "paused",
				"focusStartMs":     "1000",
				"totalPausedMs":    "200",
				"lastPauseStartMs": "1500",
				"isOnline":         "1",
			},
			want: UserState{
				Character:        "mio",
				FocusState:       clock.StatePaused,
				FocusStartMs:     1000,
				TotalPausedMs:    200,
				LastPauseStartMs: 1500,
				IsOnline:         true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeState("mio", tt.raw)
			if got != tt.want {
				t.Errorf("decodeState() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := UserState{Character: "yuki", FocusState: clock.StateFocusing, FocusStartMs: 42, IsOnline: true}
	got, ok := DecodeSnapshot(s.Encode())
	if !ok || got != s {
		t.Errorf("DecodeSnapshot(Encode()) = %+v, ok=%v", got, ok)
	}
	if _, ok := DecodeSnapshot("not-json"); ok {
		t.Error("malformed snapshot decoded successfully")
	}
}
