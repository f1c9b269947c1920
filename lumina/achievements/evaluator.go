package achievements

// Kind selects which threshold table a counter value is evaluated against.
type Kind string

const (
	KindMessages     Kind = "messages"
	KindVoiceMinutes Kind = "voice_minutes"
	KindLevel        Kind = "level"
	KindStreak       Kind = "streak"
)

type threshold struct {
	value int64
	badge string
}

var thresholds = map[Kind][]threshold{
	KindMessages: {
		{1, BadgeFirstMessage},
		{10, "10_messages"},
		{100, "100_messages"},
		{1000, "1000_messages"},
	},
	KindVoiceMinutes: {
		{1, "first_voice"},
		{60, "1_hour_voice"},
		{600, "10_hours_voice"},
	},
	KindLevel: {
		{5, "level_5"},
		{10, "level_10"},
		{20, "level_20"},
	},
	KindStreak: {
		{7, BadgeStreak7},
		{30, BadgeStreak30},
	},
}

// Evaluate returns every badge whose threshold the new counter value meets.
// Callers re-check the full table on each update and rely on idempotent
// unlocks, so a counter jumping past a threshold still earns the badge.
func Evaluate(kind Kind, value int64) []string {
	var badges []string
	for _, t := range thresholds[kind] {
		if value >= t.value {
			badges = append(badges, t.badge)
		}
	}
	return badges
}
