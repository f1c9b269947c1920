package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/luminabot/lumina/lumina/achievements"
	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/leveling"
)

// ProgressService owns the XP/level side effects shared by every activity
// path: applying deltas, detecting level transitions, granting level
// rewards and badges, and emitting level-up notifications. Callers must
// hold the member key lock.
type ProgressService struct {
	members  repositories.MemberRepository
	configs  repositories.GuildConfigRepository
	calc     *leveling.Calculator
	notifier Notifier
}

func NewProgressService(
	members repositories.MemberRepository,
	configs repositories.GuildConfigRepository,
	calc *leveling.Calculator,
	notifier Notifier,
) *ProgressService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ProgressService{
		members:  members,
		configs:  configs,
		calc:     calc,
		notifier: notifier,
	}
}

// GrantXP applies a delta carrying an XP gain and runs the level-up check
// on the transition. The level-up notification fires exactly once per
// upward transition; a delta crossing several levels emits one
// notification with the final level.
func (s *ProgressService) GrantXP(ctx context.Context, guildID, discordID string, delta repositories.MemberDelta) (*models.Member, error) {
	updated, err := s.members.Update(ctx, guildID, discordID, delta)
	if err != nil {
		return nil, err
	}

	oldLevel := s.calc.LevelForXP(updated.XP - delta.AddXP)
	newLevel := s.calc.LevelForXP(updated.XP)
	if newLevel > oldLevel {
		updated, err = s.handleLevelUp(ctx, updated, newLevel)
		if err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// ApplyBadges evaluates a counter against its threshold table and unlocks
// every qualifying badge. Unlocks are idempotent so re-checking the full
// table on each update is safe.
func (s *ProgressService) ApplyBadges(ctx context.Context, guildID, discordID string, kind achievements.Kind, value int64) error {
	for _, badgeID := range achievements.Evaluate(kind, value) {
		if err := s.members.UnlockBadge(ctx, guildID, discordID, badgeID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProgressService) handleLevelUp(ctx context.Context, member *models.Member, newLevel int) (*models.Member, error) {
	reward := s.calc.LevelUpReward(newLevel)
	updated, err := s.members.Update(ctx, member.GuildID, member.DiscordID, repositories.MemberDelta{AddCoins: reward})
	if err != nil {
		return nil, err
	}

	if err := s.ApplyBadges(ctx, member.GuildID, member.DiscordID, achievements.KindLevel, int64(newLevel)); err != nil {
		return nil, err
	}

	cfg, err := s.configs.Get(ctx, member.GuildID)
	if err != nil {
		slog.Error("Failed to load guild config for level-up",
			slog.String("guild_id", member.GuildID),
			slog.Any("error", err))
		cfg = models.DefaultGuildConfig(member.GuildID)
	}

	details := &LevelUpDetails{
		NewLevel:    newLevel,
		XP:          updated.XP,
		NextLevelXP: s.calc.XPForLevel(newLevel + 1),
		RewardCoins: reward,
	}
	if roleID, ok := cfg.RoleForLevel(newLevel); ok {
		details.AutoRoleID = roleID
	}

	if cfg.LevelUpMessages {
		s.notifier.Notify(ctx, Notification{
			GuildID:   member.GuildID,
			DiscordID: member.DiscordID,
			Username:  member.Username,
			Kind:      NotifyLevelUp,
			LevelUp:   details,
		})
	}

	slog.Info("Member leveled up",
		slog.String("type", "sys"),
		slog.String("guild_id", member.GuildID),
		slog.String("discord_id", member.DiscordID),
		slog.Int("level", newLevel),
		slog.Int64("reward", reward))

	return updated, nil
}

// nextMidnightUTC is the shared day boundary for streaks, daily claims and
// quest expiry.
func nextMidnightUTC(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}

func sameUTCDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
