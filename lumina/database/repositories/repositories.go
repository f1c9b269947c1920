package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
)

// Sentinel errors shared by every store implementation. Callers classify
// with errors.Is; both conditions are recoverable and handled at the
// command layer, never process-fatal.
var (
	ErrNotFound        = errors.New("record not found")
	ErrAlreadyExists   = errors.New("record already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)

// MemberDelta is a field-level update against a single member record.
// Add* fields accumulate, Set* fields replace when non-nil, AddBadges
// inserts missing badge IDs only (idempotent). A delta is applied
// atomically with respect to other updates on the same key.
type MemberDelta struct {
	AddMessages        int64
	AddVoiceMinutes    int64
	AddVoiceSessions   int64
	AddMessagesInVoice int64
	AddXP              int64
	AddCoins           int64

	SetStreak      *int
	SetLastDaily   *time.Time
	SetLastWork    *time.Time
	SetLastMessage *time.Time
	SetLastVoice   *time.Time
	SetUsername    *string
	SetAvatar      *string

	AddBadges []string
}

// Apply mutates m in place. Shared by the SQL and in-memory stores so delta
// semantics cannot diverge between them.
func (d MemberDelta) Apply(m *models.Member, now time.Time) {
	m.MessageCount += d.AddMessages
	m.VoiceMinutes += d.AddVoiceMinutes
	m.VoiceSessions += d.AddVoiceSessions
	m.MessagesInVoice += d.AddMessagesInVoice
	m.XP += d.AddXP
	m.Coins += d.AddCoins

	if d.SetStreak != nil {
		m.Streak = *d.SetStreak
	}
	if d.SetLastDaily != nil {
		m.LastDaily = *d.SetLastDaily
	}
	if d.SetLastWork != nil {
		m.LastWork = *d.SetLastWork
	}
	if d.SetLastMessage != nil {
		m.LastMessageAt = *d.SetLastMessage
	}
	if d.SetLastVoice != nil {
		m.LastVoiceAt = *d.SetLastVoice
	}
	if d.SetUsername != nil {
		m.Username = *d.SetUsername
	}
	if d.SetAvatar != nil {
		m.Avatar = *d.SetAvatar
	}
	for _, badge := range d.AddBadges {
		if !m.HasBadge(badge) {
			m.Badges = append(m.Badges, badge)
		}
	}
	m.UpdatedAt = now
}

// MemberRepository is the member store capability set: keyed get/create/
// update, guild scan for the read side, and delete for retention. Update on
// a missing key returns ErrNotFound; only the message-handling entry point
// creates records implicitly, and it does so via an explicit Create.
type MemberRepository interface {
	Get(ctx context.Context, guildID, discordID string) (*models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, guildID, discordID string, delta MemberDelta) (*models.Member, error)
	// UnlockBadge is idempotent: unlocking a held badge is a no-op.
	UnlockBadge(ctx context.Context, guildID, discordID, badgeID string) error
	GetByGuild(ctx context.Context, guildID string) ([]*models.Member, error)
	GuildIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, guildID, discordID string) error
}

// QuestRepository stores per-member quest instances.
type QuestRepository interface {
	GetByMember(ctx context.Context, guildID, discordID string) ([]*models.MemberQuest, error)
	GetByGuild(ctx context.Context, guildID string) ([]*models.MemberQuest, error)
	Create(ctx context.Context, quest *models.MemberQuest) error
	SetProgress(ctx context.Context, guildID, discordID, questID string, progress int64) error
	MarkCompleted(ctx context.Context, guildID, discordID, questID string, now time.Time) error
	DeleteByGuild(ctx context.Context, guildID string) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// GuildConfigRepository stores per-guild settings. Get never fails on a
// missing guild; it returns the documented defaults. A row is created
// lazily on the first Upsert.
type GuildConfigRepository interface {
	Get(ctx context.Context, guildID string) (*models.GuildConfig, error)
	Upsert(ctx context.Context, guildID string, patch models.GuildConfigPatch) (*models.GuildConfig, error)
}
