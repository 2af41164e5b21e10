package userstate

// 角色状态在Redis中的布局：
//   user:{character}           -> 哈希，字段见下
//   state:{character}          -> 发布订阅频道，每次状态写入后发布最新快照
//   inbox:reward:{character}   -> 单槽收件箱(表情奖励)
//   inbox:message:{character}  -> 单槽收件箱(文字/语音留言)
//   mailbox:{character}        -> 发布订阅频道，投递提醒

const (
	fieldFocusState     = "focusState"
	fieldFocusStartMs   = "focusStartMs"
	fieldTotalPausedMs  = "totalPausedMs"
	fieldLastPauseStart = "lastPauseStartMs"
	fieldIsOnline       = "isOnline"
)

// StateKey 返回角色状态哈希的键名。
func StateKey(character string) string {
	return "user:" + character
}

// StateChannel 返回角色状态快照的发布频道。
func StateChannel(character string) string {
	return "state:" + character
}

// RewardInboxKey 返回表情奖励的单槽收件箱键名。
func RewardInboxKey(character string) string {
	return "inbox:reward:" + character
}

// MessageInboxKey 返回留言的单槽收件箱键名。
func MessageInboxKey(character string) string {
	return "inbox:message:" + character
}

// MailboxChannel 返回收件箱投递提醒的发布频道。
func MailboxChannel(character string) string {
	return "mailbox:" + character
}
