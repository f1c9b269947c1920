package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/puzpuzpuz/xsync/v3"
)

type QuestStore struct {
	// quest instances per member key, updated copy-on-write via Compute
	quests *xsync.MapOf[string, []*models.MemberQuest]
	nextID *xsync.Counter
}

func NewQuestStore() *QuestStore {
	return &QuestStore{
		quests: xsync.NewMapOf[string, []*models.MemberQuest](),
		nextID: xsync.NewCounter(),
	}
}

var _ repositories.QuestRepository = (*QuestStore)(nil)

func (s *QuestStore) GetByMember(_ context.Context, guildID, discordID string) ([]*models.MemberQuest, error) {
	stored, _ := s.quests.Load(memberKey(guildID, discordID))
	quests := make([]*models.MemberQuest, 0, len(stored))
	for _, q := range stored {
		quests = append(quests, q.Clone())
	}
	return quests, nil
}

func (s *QuestStore) GetByGuild(_ context.Context, guildID string) ([]*models.MemberQuest, error) {
	var quests []*models.MemberQuest
	s.quests.Range(func(_ string, stored []*models.MemberQuest) bool {
		for _, q := range stored {
			if q.GuildID == guildID {
				quests = append(quests, q.Clone())
			}
		}
		return true
	})
	return quests, nil
}

func (s *QuestStore) Create(_ context.Context, quest *models.MemberQuest) error {
	key := memberKey(quest.GuildID, quest.DiscordID)
	var created bool
	s.quests.Compute(key, func(old []*models.MemberQuest, _ bool) ([]*models.MemberQuest, bool) {
		for _, q := range old {
			if q.QuestID == quest.QuestID {
				return old, false
			}
		}
		s.nextID.Inc()
		stored := quest.Clone()
		stored.ID = s.nextID.Value()
		now := time.Now()
		stored.CreatedAt = now
		stored.UpdatedAt = now
		created = true
		return append(old[:len(old):len(old)], stored), false
	})
	if !created {
		return fmt.Errorf("quest %s for %s/%s: %w", quest.QuestID, quest.GuildID, quest.DiscordID, repositories.ErrAlreadyExists)
	}
	return nil
}

func (s *QuestStore) SetProgress(_ context.Context, guildID, discordID, questID string, progress int64) error {
	return s.mutate(guildID, discordID, questID, func(q *models.MemberQuest) bool {
		if q.Completed || q.Progress > progress {
			return false
		}
		q.Progress = progress
		q.UpdatedAt = time.Now()
		return true
	})
}

func (s *QuestStore) MarkCompleted(_ context.Context, guildID, discordID, questID string, now time.Time) error {
	return s.mutate(guildID, discordID, questID, func(q *models.MemberQuest) bool {
		if q.Completed {
			return false
		}
		q.Completed = true
		q.CompletedAt = now
		q.UpdatedAt = now
		return true
	})
}

// mutate rewrites one instance under the member key's Compute section. The
// apply func refuses mutations that would violate the one-way invariants.
func (s *QuestStore) mutate(guildID, discordID, questID string, apply func(*models.MemberQuest) bool) error {
	var mutated bool
	s.quests.Compute(memberKey(guildID, discordID), func(old []*models.MemberQuest, loaded bool) ([]*models.MemberQuest, bool) {
		if !loaded {
			return nil, true
		}
		next := make([]*models.MemberQuest, len(old))
		copy(next, old)
		for i, q := range next {
			if q.QuestID != questID {
				continue
			}
			candidate := q.Clone()
			if apply(candidate) {
				next[i] = candidate
				mutated = true
			}
			break
		}
		return next, false
	})
	if !mutated {
		return fmt.Errorf("quest %s for %s/%s: %w", questID, guildID, discordID, repositories.ErrNotFound)
	}
	return nil
}

func (s *QuestStore) DeleteByGuild(_ context.Context, guildID string) error {
	var keys []string
	s.quests.Range(func(key string, stored []*models.MemberQuest) bool {
		if len(stored) > 0 && stored[0].GuildID == guildID {
			keys = append(keys, key)
		}
		return true
	})
	for _, key := range keys {
		s.quests.Delete(key)
	}
	return nil
}

func (s *QuestStore) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	var keys []string
	s.quests.Range(func(key string, _ []*models.MemberQuest) bool {
		keys = append(keys, key)
		return true
	})
	for _, key := range keys {
		s.quests.Compute(key, func(old []*models.MemberQuest, loaded bool) ([]*models.MemberQuest, bool) {
			if !loaded {
				return nil, true
			}
			var kept []*models.MemberQuest
			for _, q := range old {
				if q.ExpiresAt.Before(cutoff) {
					removed++
					continue
				}
				kept = append(kept, q)
			}
			return kept, len(kept) == 0
		})
	}
	return removed, nil
}
