// AngelaMos | 2026
// calendar.go

package activity

import "time"

const DefaultWindow = 365

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Calendar buckets times into exactly window days ending today, oldest
// first. Empty days are present with a zero count.
func Calendar(times []time.Time, now time.Time, loc *time.Location, window int) []DayCount {
	if window <= 0 {
		window = DefaultWindow
	}

	today := dayNumber(now, loc)
	first := today - window + 1

	counts := make([]int, window)
	for _, t := range times {
		d := dayNumber(t, loc)
		if d < first || d > today {
			continue
		}
		counts[d-first]++
	}

	start := StartOfDay(now, loc)
	out := make([]DayCount, window)
	for i := range out {
		day := start.AddDate(0, 0, i-window+1)
		out[i] = DayCount{
			Date:  dayKey(day, loc),
			Count: counts[i],
			Level: Level(counts[i]),
		}
	}

	return out
}

// Level maps a day count onto the five-step heatmap scale.
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count >= 4:
		return 4
	default:
		return count
	}
}

// Total sums the counts of a calendar.
func Total(days []DayCount) int {
	n := 0
	for _, d := range days {
		n += d.Count
	}
	return n
}

// ActiveDays counts calendar days with at least one log.
func ActiveDays(days []DayCount) int {
	n := 0
	for _, d := range days {
		if d.Count > 0 {
			n++
		}
	}
	return n
}
