// Package achievements maps activity counters to badge unlocks against
// fixed threshold tables. Evaluation is pure; unlocking goes through the
// member store's idempotent UnlockBadge, so every update can safely
// re-check all thresholds and no badge is ever missed on skipped values.
package achievements

// Badge IDs referenced across the codebase.
const (
	BadgeFirstMessage    = "first_message"
	BadgeStreak7         = "streak_7"
	BadgeStreak30        = "streak_30"
	BadgeSocialButterfly = "social_butterfly"
)

type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
}

var catalog = []Badge{
	{BadgeFirstMessage, "First Steps", "Sent first message", "📝"},
	{"10_messages", "Chatty", "Sent 10 messages", "💬"},
	{"100_messages", "Talkative", "Sent 100 messages", "🗣️"},
	{"1000_messages", "Legend", "Sent 1000 messages", "🏆"},
	{"first_voice", "Voice Starter", "Joined voice chat first time", "🎤"},
	{"1_hour_voice", "Voice Enthusiast", "Spent 1 hour in voice", "🎧"},
	{"10_hours_voice", "Voice Veteran", "Spent 10 hours in voice", "🌟"},
	{"level_5", "Rising Star", "Reached level 5", "⭐"},
	{"level_10", "Established", "Reached level 10", "💫"},
	{"level_20", "Master", "Reached level 20", "👑"},
	{BadgeStreak7, "Consistent", "7 day streak", "🔥"},
	{BadgeStreak30, "Dedicated", "30 day streak", "💎"},
	{BadgeSocialButterfly, "Social Butterfly", "Invited a new member", "🦋"},
}

// Get looks up a badge by ID.
func Get(id string) (Badge, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// Total is the number of badges that exist, used for completion rates.
func Total() int {
	return len(catalog)
}
