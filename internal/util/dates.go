package util

import "time"

// DayBounds 返回 t 所在本地日历日的 [00:00:00, 23:59:59.999999999]
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// MinutesBetween 四舍五入到整分钟
func MinutesBetween(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d.Round(time.Minute) / time.Minute)
}
