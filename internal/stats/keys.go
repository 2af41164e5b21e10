package stats

// 每日统计在Redis中的布局：
//   stats:{cycleDate} -> 哈希，字段为角色标识或"joint"，值为累计专注秒数
// 所有写入一律走HIncrBy原子自增，两个浏览器会话并发结算同一天的
// 计数器时不会互相覆盖。

// JointSubject 是共同专注计数器的字段名。
const JointSubject = "joint"

// DailyKey 返回某个周期日统计哈希的键名。
func DailyKey(cycleDate string) string {
	return "stats:" + cycleDate
}
