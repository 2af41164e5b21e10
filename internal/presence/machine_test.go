package presence

import (
	"reflect"
	"testing"
)

var testTTL = NoticeTTLs{Joined: 4, Online: 15, Offline: 4}

func reduce(prev, next, self View) []Event {
	return Reduce(prev, next, self, "yuki", testTTL)
}

func TestReduceEdges(t *testing.T) {
	tests := []struct {
		name string
		prev View
		next View
		self View
		want []Event
	}{
		{
			name: "redundant snapshot fires nothing",
			prev: ViewFocusing, next: ViewFocusing, self: ViewFocusing,
			want: nil,
		},
		{
			name: "coming online while idle announces and arms wave",
			prev: ViewOffline, next: ViewIdle, self: ViewIdle,
			want: []Event{
				{Kind: EventPartnerOnline, Character: "yuki", TTLSeconds: 15, ArmWave: true},
			},
		},
		{
			name: "partner starts focusing while self focusing",
			prev: ViewIdle, next: ViewFocusing, self: ViewFocusing,
			want: []Event{
				{Kind: EventOnlineNoticeCleared, Character: "yuki", DisarmWave: true},
				{Kind: EventPartnerJoined, Character: "yuki", TTLSeconds: 4},
			},
		},
		{
			name: "partner starts focusing while self idle only clears",
			prev: ViewIdle, next: ViewFocusing, self: ViewIdle,
			want: []Event{
				{Kind: EventOnlineNoticeCleared, Character: "yuki", DisarmWave: true},
			},
		},
		{
			name: "going offline from idle clears the online notice",
			prev: ViewIdle, next: ViewOffline, self: ViewIdle,
			want: []Event{
				{Kind: EventPartnerOffline, Character: "yuki", TTLSeconds: 4},
				{Kind: EventOnlineNoticeCleared, Character: "yuki", DisarmWave: true},
			},
		},
		{
			name: "going offline mid-focus only announces offline",
			prev: ViewFocusing, next: ViewOffline, self: ViewFocusing,
			want: []Event{
				{Kind: EventPartnerOffline, Character: "yuki", TTLSeconds: 4},
			},
		},
		{
			name: "pause and resume are silent",
			prev: ViewFocusing, next: ViewPaused, self: ViewFocusing,
			want: nil,
		},
		{
			name: "reconnecting straight into a run is silent",
			prev: ViewOffline, next: ViewFocusing, self: ViewIdle,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reduce(tt.prev, tt.next, tt.self)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Reduce(%s->%s, self=%s) = %+v, want %+v", tt.prev, tt.next, tt.self, got, tt.want)
			}
		})
	}
}

func TestOnlineNoticeFiresOncePerEdge(t *testing.T) {
	// 一次离线->上线边沿只通知一次；之后的冗余快照不重复触发
	first := reduce(ViewOffline, ViewIdle, ViewIdle)
	if len(first) != 1 || first[0].Kind != EventPartnerOnline {
		t.Fatalf("first edge = %+v, want a single partner_online", first)
	}
	for i := 0; i < 3; i++ {
		if again := reduce(ViewIdle, ViewIdle, ViewIdle); len(again) != 0 {
			t.Errorf("redundant snapshot #%d produced events: %+v", i, again)
		}
	}
	// 再次离线再上线，重新武装挥手
	reduce(ViewIdle, ViewOffline, ViewIdle)
	second := reduce(ViewOffline, ViewIdle, ViewIdle)
	if len(second) != 1 || !second[0].ArmWave {
		t.Errorf("second online edge = %+v, want re-armed wave", second)
	}
}

func TestWaveOneShot(t *testing.T) {
	armWave("mio")
	if !TakeWave("mio") {
		t.Fatal("armed wave was not takeable")
	}
	if TakeWave("mio") {
		t.Error("wave taken twice without re-arming")
	}
	disarmWave("mio")
	if TakeWave("mio") {
		t.Error("disarmed wave was takeable")
	}
}
