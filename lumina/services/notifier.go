package services

import "context"

// Notification kinds.
const (
	NotifyLevelUp       = "level_up"
	NotifyQuestComplete = "quest_complete"
)

type LevelUpDetails struct {
	NewLevel    int
	XP          int64
	NextLevelXP int64
	RewardCoins int64
	// AutoRoleID is set when the guild config binds a role to the reached
	// level; granting the role is the presentation layer's job.
	AutoRoleID string
}

type QuestCompleteDetails struct {
	QuestID     string
	Name        string
	Description string
	Target      int64
	RewardCoins int64
	RewardXP    int64
	RewardBadge string
}

// Notification is the payload handed to the presentation layer. The core
// emits it synchronously at the transition and never formats messages.
type Notification struct {
	GuildID   string
	DiscordID string
	Username  string
	Kind      string

	LevelUp *LevelUpDetails
	Quest   *QuestCompleteDetails
}

// Notifier delivers notifications to the presentation layer. Implementations
// must not block the hot path on network calls; the Discord sink dispatches
// asynchronously.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) {}
