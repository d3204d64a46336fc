// AngelaMos | 2026
// streak.go

package activity

import (
	"slices"
	"time"
)

// distinctDays returns the day numbers present in times, newest first.
// Days after today are dropped.
func distinctDays(times []time.Time, today int, loc *time.Location) []int {
	seen := make(map[int]struct{}, len(times))
	days := make([]int, 0, len(times))

	for _, t := range times {
		d := dayNumber(t, loc)
		if d > today {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}

	slices.Sort(days)
	slices.Reverse(days)
	return days
}

// Streak counts consecutive calendar days with at least one log, ending
// today or yesterday. Several logs on one day count once.
func Streak(times []time.Time, now time.Time, loc *time.Location) int {
	today := dayNumber(now, loc)
	cursor := today
	streak := 0

	for _, d := range distinctDays(times, today, loc) {
		if cursor-d > 1 {
			break
		}
		streak++
		cursor = d
	}

	return streak
}

// LongestStreak is the longest run of consecutive logged days in times.
func LongestStreak(times []time.Time, now time.Time, loc *time.Location) int {
	days := distinctDays(times, dayNumber(now, loc), loc)

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && days[i-1]-d == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	return longest
}

// DoneOn reports whether any log falls on the calendar day of day.
func DoneOn(times []time.Time, day time.Time, loc *time.Location) bool {
	target := dayNumber(day, loc)
	for _, t := range times {
		if dayNumber(t, loc) == target {
			return true
		}
	}
	return false
}

func TodayDone(times []time.Time, now time.Time, loc *time.Location) bool {
	return DoneOn(times, now, loc)
}

// WeekMap marks which of the last seven days, oldest first, have a log.
// Index 6 is today.
func WeekMap(times []time.Time, now time.Time, loc *time.Location) [7]bool {
	var week [7]bool
	today := dayNumber(now, loc)

	for _, t := range times {
		offset := today - dayNumber(t, loc)
		if offset >= 0 && offset < len(week) {
			week[len(week)-1-offset] = true
		}
	}

	return week
}
