package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/logger"
	"github.com/uptrace/bun"
)

type questRepository struct {
	db *bun.DB
}

func NewQuestRepository(db *bun.DB) QuestRepository {
	return &questRepository{db: db}
}

func (r *questRepository) GetByMember(ctx context.Context, guildID, discordID string) ([]*models.MemberQuest, error) {
	var quests []*models.MemberQuest
	err := r.db.NewSelect().
		Model(&quests).
		Where("guild_id = ?", guildID).
		Where("discord_id = ?", discordID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list member quests: %w", err)
	}
	return quests, nil
}

func (r *questRepository) GetByGuild(ctx context.Context, guildID string) ([]*models.MemberQuest, error) {
	var quests []*models.MemberQuest
	err := r.db.NewSelect().
		Model(&quests).
		Where("guild_id = ?", guildID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild quests: %w", err)
	}
	return quests, nil
}

func (r *questRepository) Create(ctx context.Context, quest *models.MemberQuest) error {
	now := time.Now()
	quest.CreatedAt = now
	quest.UpdatedAt = now
	res, err := r.db.NewInsert().
		Model(quest).
		On("CONFLICT (guild_id, discord_id, quest_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create quest instance: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("quest %s for %s/%s: %w", quest.QuestID, quest.GuildID, quest.DiscordID, ErrAlreadyExists)
	}
	return nil
}

// SetProgress writes an absolute progress value. Completed instances are
// frozen: the guard keeps progress monotonic and one-way even if a caller
// races a completion.
func (r *questRepository) SetProgress(ctx context.Context, guildID, discordID, questID string, progress int64) error {
	res, err := r.db.NewUpdate().
		Model((*models.MemberQuest)(nil)).
		Set("progress = ?", progress).
		Set("updated_at = ?", time.Now()).
		Where("guild_id = ?", guildID).
		Where("discord_id = ?", discordID).
		Where("quest_id = ?", questID).
		Where("completed = FALSE").
		Where("progress <= ?", progress).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update quest progress: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("quest %s for %s/%s: %w", questID, guildID, discordID, ErrNotFound)
	}
	return nil
}

func (r *questRepository) MarkCompleted(ctx context.Context, guildID, discordID, questID string, now time.Time) error {
	res, err := r.db.NewUpdate().
		Model((*models.MemberQuest)(nil)).
		Set("completed = TRUE").
		Set("completed_at = ?", now).
		Set("updated_at = ?", now).
		Where("guild_id = ?", guildID).
		Where("discord_id = ?", discordID).
		Where("quest_id = ?", questID).
		Where("completed = FALSE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to complete quest: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("quest %s for %s/%s: %w", questID, guildID, discordID, ErrNotFound)
	}
	return nil
}

func (r *questRepository) DeleteByGuild(ctx context.Context, guildID string) error {
	_, err := r.db.NewDelete().
		Model((*models.MemberQuest)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	return err
}

func (r *questRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()
	res, err := r.db.NewDelete().
		Model((*models.MemberQuest)(nil)).
		Where("expires_at < ?", cutoff).
		Exec(ctx)
	logger.LogQuery("quest purge", time.Since(start), err,
		slog.Time("cutoff", cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired quests: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}
