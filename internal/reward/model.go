package reward

import "encoding/json"

// Kind 是奖励/留言的类型。
type Kind string

const (
	// KindEmoji 表情奖励，走reward收件箱槽。
	KindEmoji Kind = "emoji"
	// KindWave 挥手，同样走reward槽，由presence的一次性开关触发。
	KindWave Kind = "wave"
	// KindText 文字留言，走message槽。
	KindText Kind = "text"
	// KindVoice 语音留言(base64 data URI)，走message槽。
	KindVoice Kind = "voice"
)

// Reward 是收件箱槽里的单条载荷。
// 收件箱是"邮箱槽"而不是队列：新写入直接覆盖未消费的旧值，
// 消费方取走后槽位清空——经典的至多一次、消费者清空模式。
type Reward struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	SentAtMs  int64  `json:"sentAtMs"`

	Emoji string `json:"emoji,omitempty"`
	Text  string `json:"text,omitempty"`
	// VoiceDataURI 是自包含的语音数据(data:audio/...;base64,...)，
	// 让语音和文字走同一个单值槽位，不需要独立的blob存储。
	VoiceDataURI string `json:"voiceDataUri,omitempty"`
	VoiceSeconds int    `json:"voiceSeconds,omitempty"`
}

// usesMessageSlot 判断该载荷应投递到哪一个收件箱槽。
func (r Reward) usesMessageSlot() bool {
	return r.Kind == KindText || r.Kind == KindVoice
}

// Encode 序列化为槽位里存放的JSON。
func (r Reward) Encode() string {
	b, _ := json.Marshal(r)
	return string(b)
}

func decodeReward(payload string) (Reward, bool) {
	var r Reward
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return Reward{}, false
	}
	return r, true
}
