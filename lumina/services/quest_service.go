package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
)

// QuestService tracks per-member progress against the static daily quest
// set. Instances are assigned lazily: the first progress event (or listing)
// of a member's day creates fresh instances expiring at the next UTC
// midnight. Callers on the write path must hold the member key lock.
type QuestService struct {
	quests   repositories.QuestRepository
	progress *ProgressService
	notifier Notifier
}

func NewQuestService(quests repositories.QuestRepository, progress *ProgressService, notifier Notifier) *QuestService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &QuestService{
		quests:   quests,
		progress: progress,
		notifier: notifier,
	}
}

// CompletedQuest pairs a finished instance with its definition so callers
// can render rewards without a second lookup.
type CompletedQuest struct {
	Definition models.QuestDefinition
	Quest      *models.MemberQuest
}

// AdvanceProgress adds amount to every active instance of the given quest
// type and completes instances that reach their target. Progress is capped
// at the target; completion fires exactly once per instance. Returns the
// quests completed by this call.
func (s *QuestService) AdvanceProgress(ctx context.Context, guildID, discordID, username, questType string, amount int64, now time.Time) ([]CompletedQuest, error) {
	if amount <= 0 {
		return nil, nil
	}

	instances, err := s.ensureAssigned(ctx, guildID, discordID, now)
	if err != nil {
		return nil, err
	}

	var completed []CompletedQuest
	for _, q := range instances {
		if q.Type != questType || !q.Active(now) {
			continue
		}
		def, ok := models.QuestDefinitionByID(q.QuestID)
		if !ok {
			continue
		}

		progress := q.Progress + amount
		if progress > def.Target {
			progress = def.Target
		}
		if err := s.quests.SetProgress(ctx, guildID, discordID, q.QuestID, progress); err != nil {
			return completed, err
		}
		q.Progress = progress

		if progress < def.Target {
			continue
		}
		if err := s.complete(ctx, guildID, discordID, username, def, q, now); err != nil {
			return completed, err
		}
		completed = append(completed, CompletedQuest{Definition: def, Quest: q})
	}
	return completed, nil
}

// ListQuests returns the member's quest instances for the current day,
// assigning them first if needed. Filter is one of the QuestFilter
// constants; an unknown filter returns ErrInvalidArgument.
func (s *QuestService) ListQuests(ctx context.Context, guildID, discordID, filter string, now time.Time) ([]*models.MemberQuest, error) {
	switch filter {
	case models.QuestFilterActive, models.QuestFilterCompleted, models.QuestFilterAll:
	default:
		return nil, fmt.Errorf("%w: unknown quest filter %q", repositories.ErrInvalidArgument, filter)
	}

	instances, err := s.ensureAssigned(ctx, guildID, discordID, now)
	if err != nil {
		return nil, err
	}

	var out []*models.MemberQuest
	for _, q := range instances {
		if q.Expired(now) {
			continue
		}
		switch filter {
		case models.QuestFilterActive:
			if q.Completed {
				continue
			}
		case models.QuestFilterCompleted:
			if !q.Completed {
				continue
			}
		}
		out = append(out, q)
	}
	return out, nil
}

// ResetDaily drops every quest instance in the guild so the next activity
// assigns a fresh set. Progress on unfinished quests is lost by design of
// the daily cycle.
func (s *QuestService) ResetDaily(ctx context.Context, guildID string) error {
	if err := s.quests.DeleteByGuild(ctx, guildID); err != nil {
		return err
	}
	slog.Info("Daily quests reset",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID))
	return nil
}

// PurgeExpired removes instances that expired before the cutoff.
func (s *QuestService) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.quests.DeleteExpiredBefore(ctx, cutoff)
}

// ensureAssigned returns the member's current-day instances, creating the
// daily set when none are live. Stale instances from previous days are left
// for the purge job.
func (s *QuestService) ensureAssigned(ctx context.Context, guildID, discordID string, now time.Time) ([]*models.MemberQuest, error) {
	existing, err := s.quests.GetByMember(ctx, guildID, discordID)
	if err != nil {
		return nil, err
	}

	var live []*models.MemberQuest
	for _, q := range existing {
		if !q.Expired(now) {
			live = append(live, q)
		}
	}
	if len(live) > 0 {
		return live, nil
	}

	expiresAt := nextMidnightUTC(now)
	for _, def := range models.DailyQuests() {
		q := &models.MemberQuest{
			GuildID:   guildID,
			DiscordID: discordID,
			QuestID:   def.QuestID,
			Type:      def.Type,
			ExpiresAt: expiresAt,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.quests.Create(ctx, q); err != nil {
			if errors.Is(err, repositories.ErrAlreadyExists) {
				continue
			}
			return nil, err
		}
		live = append(live, q)
	}
	return live, nil
}

func (s *QuestService) complete(ctx context.Context, guildID, discordID, username string, def models.QuestDefinition, q *models.MemberQuest, now time.Time) error {
	if err := s.quests.MarkCompleted(ctx, guildID, discordID, q.QuestID, now); err != nil {
		// Another path already completed it; the reward was granted there.
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	q.Completed = true
	q.CompletedAt = now

	delta := repositories.MemberDelta{
		AddXP:    def.RewardXP,
		AddCoins: def.RewardCoins,
	}
	if def.RewardBadge != "" {
		delta.AddBadges = []string{def.RewardBadge}
	}
	// Reward XP flows through the progression service so a quest reward can
	// trigger a level-up.
	if _, err := s.progress.GrantXP(ctx, guildID, discordID, delta); err != nil {
		return err
	}

	s.notifier.Notify(ctx, Notification{
		GuildID:   guildID,
		DiscordID: discordID,
		Username:  username,
		Kind:      NotifyQuestComplete,
		Quest: &QuestCompleteDetails{
			QuestID:     def.QuestID,
			Name:        def.Name,
			Description: def.Description,
			Target:      def.Target,
			RewardCoins: def.RewardCoins,
			RewardXP:    def.RewardXP,
			RewardBadge: def.RewardBadge,
		},
	})

	slog.Info("Quest completed",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID),
		slog.String("discord_id", discordID),
		slog.String("quest_id", def.QuestID))
	return nil
}
