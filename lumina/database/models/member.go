package models

import (
	"slices"
	"time"

	"github.com/uptrace/bun"
)

// Member holds the per-(guild, member) progression record. Level is never
// stored; it is derived from XP on read so the two can't drift apart.
type Member struct {
	bun.BaseModel `bun:"table:members,alias:m"`

	ID        int64  `bun:"id,pk,autoincrement"`
	GuildID   string `bun:"guild_id,notnull,unique:members_guild_member_key"`
	DiscordID string `bun:"discord_id,notnull,unique:members_guild_member_key"`
	Username  string `bun:"username,notnull"`
	Avatar    string `bun:"avatar"`

	// Activity counters
	MessageCount    int64 `bun:"message_count,notnull,default:0"`
	VoiceMinutes    int64 `bun:"voice_minutes,notnull,default:0"`
	VoiceSessions   int64 `bun:"voice_sessions,notnull,default:0"`
	MessagesInVoice int64 `bun:"messages_in_voice,notnull,default:0"`

	// Progression and economy
	XP    int64 `bun:"xp,notnull,default:0"`
	Coins int64 `bun:"coins,notnull,default:0"`

	// Engagement
	Streak int      `bun:"streak,notnull,default:0"`
	Badges []string `bun:"badges,type:jsonb"`

	LastMessageAt time.Time `bun:"last_message_at"`
	LastVoiceAt   time.Time `bun:"last_voice_at"`
	LastDaily     time.Time `bun:"last_daily"`
	LastWork      time.Time `bun:"last_work"`
	Joined        time.Time `bun:"joined,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (m *Member) HasBadge(badgeID string) bool {
	return slices.Contains(m.Badges, badgeID)
}

// Clone returns a deep copy. Repositories hand out copies only, so callers
// can never mutate stored state through a returned record.
func (m *Member) Clone() *Member {
	c := *m
	c.Badges = slices.Clone(m.Badges)
	return &c
}
