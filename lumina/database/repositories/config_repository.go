package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/uptrace/bun"
)

type guildConfigRepository struct {
	db *bun.DB
}

func NewGuildConfigRepository(db *bun.DB) GuildConfigRepository {
	return &guildConfigRepository{db: db}
}

func (r *guildConfigRepository) Get(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	cfg := new(models.GuildConfig)
	err := r.db.NewSelect().
		Model(cfg).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultGuildConfig(guildID), nil
		}
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	return cfg, nil
}

func (r *guildConfigRepository) Upsert(ctx context.Context, guildID string, patch models.GuildConfigPatch) (*models.GuildConfig, error) {
	cfg, err := r.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patch.Apply(cfg, now)

	if cfg.ID == 0 {
		cfg.CreatedAt = now
		if _, err := r.db.NewInsert().Model(cfg).Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to create guild config: %w", err)
		}
		return cfg, nil
	}

	if _, err := r.db.NewUpdate().Model(cfg).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to update guild config: %w", err)
	}
	return cfg, nil
}
