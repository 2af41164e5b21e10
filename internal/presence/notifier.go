package presence

import (
	"sync"
	"time"
)

// Notifier 为一条实时推送连接管理瞬态通知的定时器。
// 每个带TTL的事件会登记一个到期定时器，到期后补发notice_expired；
// 被状态机撤销的通知取消定时器。连接断开时必须Close，
// 避免定时器在底层状态消失后仍然触发。
type Notifier struct {
	mu     sync.Mutex
	timers map[EventKind]*time.Timer
	closed bool
	send   func(Event)

	self string
}

// NewNotifier 创建一个通知调度器。send把事件推进连接的发送队列。
func NewNotifier(self string, send func(Event)) *Notifier {
	return &Notifier{
		timers: make(map[EventKind]*time.Timer),
		send:   send,
		self:   self,
	}
}

// Apply 把状态机产出的事件应用到这条连接：
// 转发事件、维护到期定时器、翻转挥手开关。
func (n *Notifier) Apply(events []Event) {
	for _, ev := range events {
		if ev.ArmWave {
			armWave(n.self)
		}
		if ev.DisarmWave {
			disarmWave(n.self)
		}
		if ev.Kind == EventOnlineNoticeCleared {
			n.cancel(EventPartnerOnline)
		}
		n.send(ev)
		if ev.TTLSeconds > 0 {
			n.schedule(ev)
		}
	}
}

// schedule 为一条瞬态通知登记到期定时器。
// 同类通知重复出现(新的真实边沿)时，旧定时器被替换。
func (n *Notifier) schedule(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	if t, ok := n.timers[ev.Kind]; ok {
		t.Stop()
	}
	kind := ev.Kind
	n.timers[kind] = time.AfterFunc(time.Duration(ev.TTLSeconds)*time.Second, func() {
		n.mu.Lock()
		if n.closed {
			n.mu.Unlock()
			return
		}
		delete(n.timers, kind)
		n.mu.Unlock()
		n.send(Event{Kind: EventNoticeExpired, Character: ev.Character, Origin: kind})
		if kind == EventPartnerOnline {
			disarmWave(n.self)
		}
	})
}

// cancel 撤销一类通知的到期定时器。
func (n *Notifier) cancel(kind EventKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if t, ok := n.timers[kind]; ok {
		t.Stop()
		delete(n.timers, kind)
	}
}

// Close 取消所有挂起的定时器。连接断开时defer调用。
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for kind, t := range n.timers {
		t.Stop()
		delete(n.timers, kind)
	}
}

// 挥手动作的一次性开关，按角色武装。
// 搭档每次"上线且空闲"的边沿都会重新武装，开始专注或离线则解除。
var (
	waveMu    sync.Mutex
	waveArmed = make(map[string]bool)
)

func armWave(self string) {
	waveMu.Lock()
	defer waveMu.Unlock()
	waveArmed[self] = true
}

func disarmWave(self string) {
	waveMu.Lock()
	defer waveMu.Unlock()
	delete(waveArmed, self)
}

// TakeWave 尝试消耗一次挥手机会。成功返回true并解除武装。
func TakeWave(self string) bool {
	waveMu.Lock()
	defer waveMu.Unlock()
	if !waveArmed[self] {
		return false
	}
	delete(waveArmed, self)
	return true
}
