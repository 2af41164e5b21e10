package stats

import (
	"fmt"
	"strconv"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/pkg/clock"
	"github.com/redis/go-redis/v9"
)

// IncrInPipe 把一次每日计数器自增追加到外部事务管道。
// seconds<=0时什么都不追加，调用方不需要自己判断。
func IncrInPipe(pipe redis.Pipeliner, cycleDate, subject string, seconds int64) {
	if seconds <= 0 {
		return
	}
	pipe.HIncrBy(database.Ctx, DailyKey(cycleDate), subject, seconds)
}

// DayTotals 是一个周期日内各主体的累计专注秒数。
type DayTotals struct {
	CycleDate string           `json:"cycleDate"`
	Totals    map[string]int64 `json:"totals"`
}

// readLiveDay 从Redis读取一个周期日的计数器。键不存在返回空表。
func readLiveDay(cycleDate string) (map[string]int64, error) {
	raw, err := database.RDB.HGetAll(database.Ctx, DailyKey(cycleDate)).Result()
	if err != nil {
		return nil, fmt.Errorf("无法读取 %s 的每日统计: %w", cycleDate, err)
	}
	totals := make(map[string]int64, len(raw))
	for subject, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		totals[subject] = n
	}
	return totals, nil
}

// Today 返回当前周期日的统计。两位角色和joint字段总是出现，缺省为0。
func Today(now time.Time) (DayTotals, error) {
	cycleDate := clock.CycleDateKey(now.UnixMilli(), config.Cfg.App.CycleOffset())
	live, err := readLiveDay(cycleDate)
	if err != nil {
		return DayTotals{}, err
	}
	return fillSubjects(cycleDate, live), nil
}

// Trend 返回最近days个周期日的统计，从旧到新。
// 当天以Redis里的实时计数器为准，更早的日期直接用归档快照，
// 两者有重叠时实时值覆盖快照值。
func Trend(now time.Time, days int) ([]DayTotals, error) {
	offset := config.Cfg.App.CycleOffset()
	dates := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		ts := now.AddDate(0, 0, -i)
		dates = append(dates, clock.CycleDateKey(ts.UnixMilli(), offset))
	}

	// 先从归档库取出整个区间的快照
	var rows []DailyStat
	if err := database.DB.Where("cycle_date >= ? AND cycle_date <= ?", dates[0], dates[len(dates)-1]).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("无法读取统计快照: %w", err)
	}
	archived := make(map[string]map[string]int64)
	for _, row := range rows {
		if archived[row.CycleDate] == nil {
			archived[row.CycleDate] = make(map[string]int64)
		}
		archived[row.CycleDate][row.Subject] = row.TotalFocusTime
	}

	out := make([]DayTotals, 0, len(dates))
	for _, date := range dates {
		totals := archived[date]
		if totals == nil {
			totals = make(map[string]int64)
		}
		live, err := readLiveDay(date)
		if err != nil {
			return nil, err
		}
		for subject, v := range live {
			totals[subject] = v
		}
		out = append(out, fillSubjects(date, totals))
	}
	return out, nil
}

// fillSubjects 保证两位角色和joint都有值，便于前端直接使用。
func fillSubjects(cycleDate string, totals map[string]int64) DayTotals {
	for _, subject := range append(config.Cfg.App.Characters(), JointSubject) {
		if _, ok := totals[subject]; !ok {
			totals[subject] = 0
		}
	}
	return DayTotals{CycleDate: cycleDate, Totals: totals}
}
