package service

import (
	"fmt"
	"time"
)

// 趋势粒度
const (
	GranularityWeek  = "week"
	GranularityMonth = "month"
)

// Window 报表统计窗口，闭区间 [From, To]
// From为当日00:00:00.000 UTC，To为当日23:59:59.999 UTC
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ParseWindow 解析 2006-01-02 格式的起止日期为UTC日界窗口
func ParseWindow(fromDate, toDate string) (Window, error) {
	from, err := time.ParseInLocation("2006-01-02", fromDate, time.UTC)
	if err != nil {
		return Window{}, fmt.Errorf("invalid from date %q: %w", fromDate, err)
	}
	to, err := time.ParseInLocation("2006-01-02", toDate, time.UTC)
	if err != nil {
		return Window{}, fmt.Errorf("invalid to date %q: %w", toDate, err)
	}
	if to.Before(from) {
		return Window{}, fmt.Errorf("to date %s before from date %s", toDate, fromDate)
	}
	return NewDayWindow(from, to), nil
}

// NewDayWindow 把两个日期拉到UTC日界
func NewDayWindow(from, to time.Time) Window {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999000000, time.UTC)
	return Window{From: f, To: t}
}

// Contains 时间点是否落在窗口内
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// ContainsPtr nil时间一律视为窗口外
func (w Window) ContainsPtr(t *time.Time) bool {
	if t == nil {
		return false
	}
	return w.Contains(*t)
}

// Buckets 按粒度切分窗口，用于趋势报表
// week以周一为界，month以自然月为界；首尾桶按窗口截断
func (w Window) Buckets(granularity string) []Window {
	var buckets []Window
	cur := w.From
	for !cur.After(w.To) {
		var next time.Time
		switch granularity {
		case GranularityMonth:
			next = time.Date(cur.Year(), cur.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		default: // week
			// 推进到下周一
			days := (8 - int(cur.Weekday())) % 7
			if days == 0 {
				days = 7
			}
			next = time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
		}
		end := next.Add(-time.Millisecond)
		if end.After(w.To) {
			end = w.To
		}
		buckets = append(buckets, Window{From: cur, To: end})
		cur = next
	}
	return buckets
}

// Label 桶标签：month为2006-01，week为该桶起始日
func (w Window) Label(granularity string) string {
	if granularity == GranularityMonth {
		return w.From.Format("2006-01")
	}
	return w.From.Format("2006-01-02")
}
