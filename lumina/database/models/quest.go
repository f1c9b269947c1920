package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Quest type constants
const (
	QuestTypeMessage = "message"
	QuestTypeVoice   = "voice"
	QuestTypeInvite  = "invite"
	QuestTypeDaily   = "daily"
)

// Quest list filters
const (
	QuestFilterActive    = "active"
	QuestFilterCompleted = "completed"
	QuestFilterAll       = "all"
)

// QuestDefinition is a static, time-boxed progress goal. Definitions live in
// code (see DailyQuests); only per-member instances are persisted.
type QuestDefinition struct {
	QuestID     string
	Name        string
	Description string
	Type        string
	Target      int64
	RewardCoins int64
	RewardXP    int64
	RewardBadge string
}

// MemberQuest is one member's progress against a quest definition.
// Progress never decreases and Completed is a one-way transition; the
// completion reward is granted exactly once, at the transition.
type MemberQuest struct {
	bun.BaseModel `bun:"table:member_quests,alias:mq"`

	ID        int64  `bun:"id,pk,autoincrement"`
	GuildID   string `bun:"guild_id,notnull,unique:member_quests_key"`
	DiscordID string `bun:"discord_id,notnull,unique:member_quests_key"`
	QuestID   string `bun:"quest_id,notnull,unique:member_quests_key"`
	Type      string `bun:"type,notnull"`

	Progress  int64 `bun:"progress,notnull,default:0"`
	Completed bool  `bun:"completed,notnull,default:false"`

	ExpiresAt   time.Time `bun:"expires_at,notnull"`
	CompletedAt time.Time `bun:"completed_at"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (q *MemberQuest) Expired(now time.Time) bool {
	return q.ExpiresAt.Before(now)
}

// Active reports whether the instance can still accept progress.
func (q *MemberQuest) Active(now time.Time) bool {
	return !q.Completed && !q.Expired(now)
}

func (q *MemberQuest) Clone() *MemberQuest {
	c := *q
	return &c
}

// DailyQuests returns the static daily quest set. A fresh slice is returned
// so callers can stamp expiry times without sharing state.
func DailyQuests() []QuestDefinition {
	return []QuestDefinition{
		{
			QuestID:     "daily_messages_10",
			Name:        "Chatty Day",
			Description: "Send 10 messages today",
			Type:        QuestTypeMessage,
			Target:      10,
			RewardCoins: 50,
			RewardXP:    100,
		},
		{
			QuestID:     "daily_voice_30min",
			Name:        "Voice Time",
			Description: "Spend 30 minutes in voice chat",
			Type:        QuestTypeVoice,
			Target:      30,
			RewardCoins: 75,
			RewardXP:    150,
		},
		{
			QuestID:     "daily_invite_1",
			Name:        "Social Butterfly",
			Description: "Invite 1 new member",
			Type:        QuestTypeInvite,
			Target:      1,
			RewardCoins: 100,
			RewardXP:    200,
			RewardBadge: "social_butterfly",
		},
	}
}

// QuestDefinitionByID looks up a static definition by quest ID.
func QuestDefinitionByID(questID string) (QuestDefinition, bool) {
	for _, def := range DailyQuests() {
		if def.QuestID == questID {
			return def, true
		}
	}
	return QuestDefinition{}, false
}
