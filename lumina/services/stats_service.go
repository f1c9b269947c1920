package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/leveling"
)

// Leaderboard metrics.
const (
	MetricMessages = "messages"
	MetricVoice    = "voice"
	MetricXP       = "xp"
	MetricCoins    = "coins"
	MetricLevel    = "level"
)

const boardCacheTTL = 30 * time.Second

// StatsService computes guild aggregates and rankings. Leaderboards are
// full scans sorted in memory; a short-TTL LRU cache keyed guild+metric
// absorbs repeated reads from command spam.
type StatsService struct {
	members repositories.MemberRepository
	calc    *leveling.Calculator
	boards  *lru.Cache
}

type cachedBoard struct {
	at      time.Time
	members []*models.Member
}

func NewStatsService(members repositories.MemberRepository, calc *leveling.Calculator) *StatsService {
	boards, _ := lru.New(128)
	return &StatsService{
		members: members,
		calc:    calc,
		boards:  boards,
	}
}

// GuildStats is a point-in-time aggregate over every member of a guild.
type GuildStats struct {
	MemberCount     int
	TotalMessages   int64
	TotalVoiceMin   int64
	TotalXP         int64
	TotalCoins      int64
	AverageMessages float64
	MaxLevel        int
}

// Stats scans the guild and aggregates. An empty guild yields the zero
// aggregate, never an error.
func (s *StatsService) Stats(ctx context.Context, guildID string) (*GuildStats, error) {
	members, err := s.members.GetByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	stats := &GuildStats{MemberCount: len(members)}
	for _, m := range members {
		stats.TotalMessages += m.MessageCount
		stats.TotalVoiceMin += m.VoiceMinutes
		stats.TotalXP += m.XP
		stats.TotalCoins += m.Coins
		if level := s.calc.LevelForXP(m.XP); level > stats.MaxLevel {
			stats.MaxLevel = level
		}
	}
	if len(members) > 0 {
		stats.AverageMessages = float64(stats.TotalMessages) / float64(len(members))
	}
	return stats, nil
}

// TopMembers returns the guild's members ordered descending by metric,
// ties broken by ascending member ID so the ordering is deterministic. The
// result length is min(limit, member count).
func (s *StatsService) TopMembers(ctx context.Context, guildID, metric string, limit int) ([]*models.Member, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", repositories.ErrInvalidArgument, limit)
	}
	board, err := s.board(ctx, guildID, metric)
	if err != nil {
		return nil, err
	}
	if limit > len(board) {
		limit = len(board)
	}
	return board[:limit], nil
}

// Rank returns the member's 1-based position on the metric's leaderboard.
func (s *StatsService) Rank(ctx context.Context, guildID, discordID, metric string) (int, error) {
	board, err := s.board(ctx, guildID, metric)
	if err != nil {
		return 0, err
	}
	for i, m := range board {
		if m.DiscordID == discordID {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: member %s has no record in guild %s", repositories.ErrNotFound, discordID, guildID)
}

// Invalidate drops the guild's cached leaderboards. Called after bulk
// mutations (purge, reset) where stale boards would be visible.
func (s *StatsService) Invalidate(guildID string) {
	for _, metric := range []string{MetricMessages, MetricVoice, MetricXP, MetricCoins, MetricLevel} {
		s.boards.Remove(guildID + ":" + metric)
	}
}

func (s *StatsService) board(ctx context.Context, guildID, metric string) ([]*models.Member, error) {
	key, err := s.metricValue(metric)
	if err != nil {
		return nil, err
	}

	cacheKey := guildID + ":" + metric
	if v, ok := s.boards.Get(cacheKey); ok {
		if cached := v.(*cachedBoard); time.Since(cached.at) < boardCacheTTL {
			return cached.members, nil
		}
	}

	members, err := s.members.GetByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(members, func(i, j int) bool {
		vi, vj := key(members[i]), key(members[j])
		if vi != vj {
			return vi > vj
		}
		return members[i].DiscordID < members[j].DiscordID
	})

	s.boards.Add(cacheKey, &cachedBoard{at: time.Now(), members: members})
	return members, nil
}

func (s *StatsService) metricValue(metric string) (func(*models.Member) int64, error) {
	switch metric {
	case MetricMessages:
		return func(m *models.Member) int64 { return m.MessageCount }, nil
	case MetricVoice:
		return func(m *models.Member) int64 { return m.VoiceMinutes }, nil
	case MetricXP:
		return func(m *models.Member) int64 { return m.XP }, nil
	case MetricCoins:
		return func(m *models.Member) int64 { return m.Coins }, nil
	case MetricLevel:
		return func(m *models.Member) int64 { return int64(s.calc.LevelForXP(m.XP)) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown leaderboard metric %q", repositories.ErrInvalidArgument, metric)
	}
}
