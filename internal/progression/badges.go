// AngelaMos | 2026
// badges.go

package progression

import "strings"

type Counts struct {
	Logs  int
	Goals int
	Posts int
	Rank  Rank
}

type Badge struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type badgeRule struct {
	badge Badge
	earn  func(Counts) bool
}

var badgeRules = []badgeRule{
	{Badge{"first-action", "First Action", "🌱"}, func(c Counts) bool { return c.Logs >= 1 }},
	{Badge{"ten-actions", "10 Actions", "🔥"}, func(c Counts) bool { return c.Logs >= 10 }},
	{Badge{"fifty-actions", "50 Actions", "⚡"}, func(c Counts) bool { return c.Logs >= 50 }},
	{Badge{"century", "Century", "💯"}, func(c Counts) bool { return c.Logs >= 100 }},
	{Badge{"goal-setter", "Goal Setter", "🎯"}, func(c Counts) bool { return c.Goals >= 3 }},
	{Badge{"sharer", "Sharer", "📣"}, func(c Counts) bool { return c.Posts >= 5 }},
}

var rankEmoji = map[Rank]string{
	Silver:   "🥈",
	Gold:     "🥇",
	Platinum: "💠",
	Diamond:  "💎",
}

// Badges lists the badges earned for c, in display order.
func Badges(c Counts) []Badge {
	out := make([]Badge, 0, len(badgeRules)+1)
	for _, rule := range badgeRules {
		if rule.earn(c) {
			out = append(out, rule.badge)
		}
	}

	if c.Rank.Index() > Bronze.Index() {
		out = append(out, Badge{
			ID:    "rank-" + strings.ToLower(c.Rank.String()),
			Name:  c.Rank.String() + " Rank",
			Emoji: rankEmoji[c.Rank],
		})
	}

	return out
}
