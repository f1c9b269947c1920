package memstore

import (
	"context"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/puzpuzpuz/xsync/v3"
)

type GuildConfigStore struct {
	configs *xsync.MapOf[string, *models.GuildConfig]
}

func NewGuildConfigStore() *GuildConfigStore {
	return &GuildConfigStore{configs: xsync.NewMapOf[string, *models.GuildConfig]()}
}

var _ repositories.GuildConfigRepository = (*GuildConfigStore)(nil)

func (s *GuildConfigStore) Get(_ context.Context, guildID string) (*models.GuildConfig, error) {
	if cfg, ok := s.configs.Load(guildID); ok {
		return cfg.Clone(), nil
	}
	return models.DefaultGuildConfig(guildID), nil
}

func (s *GuildConfigStore) Upsert(_ context.Context, guildID string, patch models.GuildConfigPatch) (*models.GuildConfig, error) {
	var updated *models.GuildConfig
	s.configs.Compute(guildID, func(old *models.GuildConfig, loaded bool) (*models.GuildConfig, bool) {
		next := models.DefaultGuildConfig(guildID)
		if loaded {
			next = old.Clone()
		} else {
			next.CreatedAt = time.Now()
		}
		patch.Apply(next, time.Now())
		updated = next
		return next, false
	})
	return updated.Clone(), nil
}
