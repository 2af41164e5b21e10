package presence

// EventKind 是通知事件的类型。
type EventKind string

const (
	// EventPartnerJoined 搭档加入了共同专注(本人正在专注时搭档开始专注)。
	EventPartnerJoined EventKind = "partner_joined"
	// EventPartnerOnline 搭档上线了(并且处于空闲)。
	EventPartnerOnline EventKind = "partner_online"
	// EventPartnerOffline 搭档离线了。
	EventPartnerOffline EventKind = "partner_offline"
	// EventOnlineNoticeCleared 撤下"搭档上线"通知(搭档开始专注或离线)。
	EventOnlineNoticeCleared EventKind = "online_notice_cleared"
	// EventNoticeExpired 瞬态通知到期，由定时调度器补发。
	EventNoticeExpired EventKind = "notice_expired"
)

// Event 是状态机产出的一条通知事件。
// TTLSeconds>0的事件是瞬态通知，到期后由调度器补发清除。
type Event struct {
	Kind       EventKind `json:"kind"`
	Character  string    `json:"character"`
	TTLSeconds int       `json:"ttlSeconds,omitempty"`
	// Origin 在notice_expired事件里标记到期的是哪类通知。
	Origin EventKind `json:"origin,omitempty"`
	// ArmWave/DisarmWave 指示挥手动作的一次性开关变化。
	ArmWave    bool `json:"armWave,omitempty"`
	DisarmWave bool `json:"disarmWave,omitempty"`
}

// NoticeTTLs 是各类瞬态通知的自动消失时长(秒)。
type NoticeTTLs struct {
	Joined  int
	Online  int
	Offline int
}

// Reduce 是presence状态机的核心：对(旧值,新值)这对边沿求值，
// 产出要推给本人的通知事件。严格按边沿触发——内容没变的冗余快照
// 不产生任何事件，也不会重置已有通知的定时器。
//
// partner是搭档的新旧可见状态，self是收到快照那一刻本人的可见状态。
func Reduce(prevPartner, nextPartner, self View, partnerName string, ttl NoticeTTLs) []Event {
	if prevPartner == nextPartner {
		return nil
	}

	var events []Event

	// 离线边沿：瞬态"搭档离线"，并撤掉可能还挂着的上线通知
	if nextPartner == ViewOffline {
		events = append(events, Event{
			Kind:       EventPartnerOffline,
			Character:  partnerName,
			TTLSeconds: ttl.Offline,
		})
		if prevPartner == ViewIdle {
			events = append(events, Event{
				Kind:       EventOnlineNoticeCleared,
				Character:  partnerName,
				DisarmWave: true,
			})
		}
		return events
	}

	// 上线边沿：只有落在空闲态才提示"搭档上线"，同时重新武装挥手
	if prevPartner == ViewOffline && nextPartner == ViewIdle {
		events = append(events, Event{
			Kind:       EventPartnerOnline,
			Character:  partnerName,
			TTLSeconds: ttl.Online,
			ArmWave:    true,
		})
		return events
	}

	// 搭档开始专注：离开空闲态要撤掉上线通知并解除挥手
	if prevPartner == ViewIdle && nextPartner == ViewFocusing {
		events = append(events, Event{
			Kind:       EventOnlineNoticeCleared,
			Character:  partnerName,
			DisarmWave: true,
		})
		// 本人也在专注中才算"加入"
		if self == ViewFocusing {
			events = append(events, Event{
				Kind:       EventPartnerJoined,
				Character:  partnerName,
				TTLSeconds: ttl.Joined,
			})
		}
		return events
	}

	// 其余边沿(暂停/恢复、离线直接进入专注等)不产生通知
	return events
}
