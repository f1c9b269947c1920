package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/logger"
	"github.com/uptrace/bun"
)

type memberRepository struct {
	db *bun.DB
}

// NewMemberRepository returns the Postgres-backed member store. Atomicity of
// a single delta relies on the caller's per-key serialization (the services
// layer holds a member lock across each read-modify-write cycle).
func NewMemberRepository(db *bun.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Get(ctx context.Context, guildID, discordID string) (*models.Member, error) {
	member := new(models.Member)
	err := r.db.NewSelect().
		Model(member).
		Where("guild_id = ?", guildID).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("member %s/%s: %w", guildID, discordID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now
	res, err := r.db.NewInsert().
		Model(member).
		On("CONFLICT (guild_id, discord_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("member %s/%s: %w", member.GuildID, member.DiscordID, ErrAlreadyExists)
	}
	return nil
}

func (r *memberRepository) Update(ctx context.Context, guildID, discordID string, delta MemberDelta) (*models.Member, error) {
	member, err := r.Get(ctx, guildID, discordID)
	if err != nil {
		return nil, err
	}

	delta.Apply(member, time.Now())

	start := time.Now()
	_, err = r.db.NewUpdate().
		Model(member).
		WherePK().
		Exec(ctx)
	logger.LogQuery("member update", time.Since(start), err,
		slog.String("guild_id", guildID),
		slog.String("discord_id", discordID))
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}

func (r *memberRepository) UnlockBadge(ctx context.Context, guildID, discordID, badgeID string) error {
	_, err := r.Update(ctx, guildID, discordID, MemberDelta{AddBadges: []string{badgeID}})
	return err
}

func (r *memberRepository) GetByGuild(ctx context.Context, guildID string) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.NewSelect().
		Model(&members).
		Where("guild_id = ?", guildID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild members: %w", err)
	}
	return members, nil
}

func (r *memberRepository) GuildIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.NewSelect().
		Model((*models.Member)(nil)).
		ColumnExpr("DISTINCT guild_id").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild ids: %w", err)
	}
	return ids, nil
}

func (r *memberRepository) Delete(ctx context.Context, guildID, discordID string) error {
	_, err := r.db.NewDelete().
		Model((*models.Member)(nil)).
		Where("guild_id = ?", guildID).
		Where("discord_id = ?", discordID).
		Exec(ctx)
	return err
}
