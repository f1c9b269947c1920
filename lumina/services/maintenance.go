package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
)

// MaintenanceService owns scheduled retention work: dropping expired quest
// instances and purging member records that never accrued anything.
type MaintenanceService struct {
	members repositories.MemberRepository
	quests  repositories.QuestRepository
	stats   *StatsService
}

func NewMaintenanceService(members repositories.MemberRepository, quests repositories.QuestRepository, stats *StatsService) *MaintenanceService {
	return &MaintenanceService{
		members: members,
		quests:  quests,
		stats:   stats,
	}
}

// PurgeStaleData removes quest instances that expired before the cutoff and
// member records with no progression at all (zero XP, zero coins, no
// badges) whose last activity predates the cutoff. Members with any
// progression are kept forever.
func (s *MaintenanceService) PurgeStaleData(ctx context.Context, cutoff time.Time) (quests, members int64, err error) {
	quests, err = s.quests.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, 0, err
	}

	guildIDs, err := s.members.GuildIDs(ctx)
	if err != nil {
		return quests, 0, err
	}
	for _, guildID := range guildIDs {
		all, err := s.members.GetByGuild(ctx, guildID)
		if err != nil {
			return quests, members, err
		}
		purged := false
		for _, m := range all {
			if !purgeable(m, cutoff) {
				continue
			}
			if err := s.members.Delete(ctx, guildID, m.DiscordID); err != nil {
				return quests, members, err
			}
			members++
			purged = true
		}
		if purged && s.stats != nil {
			s.stats.Invalidate(guildID)
		}
	}

	slog.Info("Stale data purged",
		slog.String("type", "sys"),
		slog.Int64("quests", quests),
		slog.Int64("members", members))
	return quests, members, nil
}

func purgeable(m *models.Member, cutoff time.Time) bool {
	if m.XP != 0 || m.Coins != 0 || len(m.Badges) != 0 {
		return false
	}
	last := m.LastMessageAt
	if m.LastVoiceAt.After(last) {
		last = m.LastVoiceAt
	}
	if last.IsZero() {
		last = m.Joined
	}
	return last.Before(cutoff)
}
