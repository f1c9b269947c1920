// Package memstore provides in-memory implementations of the repository
// interfaces. They back the test suites and the "memory" storage mode for
// running the bot without Postgres. All operations are atomic per key;
// records are handed out as copies only.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/puzpuzpuz/xsync/v3"
)

func memberKey(guildID, discordID string) string {
	return guildID + ":" + discordID
}

type MemberStore struct {
	members *xsync.MapOf[string, *models.Member]
	nextID  *xsync.Counter
}

func NewMemberStore() *MemberStore {
	return &MemberStore{
		members: xsync.NewMapOf[string, *models.Member](),
		nextID:  xsync.NewCounter(),
	}
}

var _ repositories.MemberRepository = (*MemberStore)(nil)

func (s *MemberStore) Get(_ context.Context, guildID, discordID string) (*models.Member, error) {
	member, ok := s.members.Load(memberKey(guildID, discordID))
	if !ok {
		return nil, fmt.Errorf("member %s/%s: %w", guildID, discordID, repositories.ErrNotFound)
	}
	return member.Clone(), nil
}

func (s *MemberStore) Create(_ context.Context, member *models.Member) error {
	s.nextID.Inc()
	stored := member.Clone()
	stored.ID = s.nextID.Value()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	if _, loaded := s.members.LoadOrStore(memberKey(member.GuildID, member.DiscordID), stored); loaded {
		return fmt.Errorf("member %s/%s: %w", member.GuildID, member.DiscordID, repositories.ErrAlreadyExists)
	}
	member.ID = stored.ID
	return nil
}

func (s *MemberStore) Update(_ context.Context, guildID, discordID string, delta repositories.MemberDelta) (*models.Member, error) {
	var updated *models.Member
	// Compute applies the delta atomically with respect to other updates on
	// the same key; updates on different keys proceed independently.
	_, ok := s.members.Compute(memberKey(guildID, discordID), func(old *models.Member, loaded bool) (*models.Member, bool) {
		if !loaded {
			return nil, true
		}
		next := old.Clone()
		delta.Apply(next, time.Now())
		updated = next
		return next, false
	})
	if !ok {
		return nil, fmt.Errorf("member %s/%s: %w", guildID, discordID, repositories.ErrNotFound)
	}
	return updated.Clone(), nil
}

func (s *MemberStore) UnlockBadge(ctx context.Context, guildID, discordID, badgeID string) error {
	_, err := s.Update(ctx, guildID, discordID, repositories.MemberDelta{AddBadges: []string{badgeID}})
	return err
}

func (s *MemberStore) GetByGuild(_ context.Context, guildID string) ([]*models.Member, error) {
	var members []*models.Member
	s.members.Range(func(_ string, member *models.Member) bool {
		if member.GuildID == guildID {
			members = append(members, member.Clone())
		}
		return true
	})
	// Range order is unspecified; match the SQL store's insertion order.
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (s *MemberStore) GuildIDs(_ context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var ids []string
	s.members.Range(func(_ string, member *models.Member) bool {
		if _, ok := seen[member.GuildID]; !ok {
			seen[member.GuildID] = struct{}{}
			ids = append(ids, member.GuildID)
		}
		return true
	})
	sort.Strings(ids)
	return ids, nil
}

func (s *MemberStore) Delete(_ context.Context, guildID, discordID string) error {
	s.members.Delete(memberKey(guildID, discordID))
	return nil
}
