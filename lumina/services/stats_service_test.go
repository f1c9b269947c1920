package services

import (
	"context"
	"errors"
	"testing"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
)

func seedBoard(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	env.seedMember(ctx, "g1", "alice", func(m *models.Member) {
		m.MessageCount = 50
		m.XP = 500
		m.Coins = 10
	})
	env.seedMember(ctx, "g1", "bob", func(m *models.Member) {
		m.MessageCount = 200
		m.XP = 100
		m.Coins = 10
	})
	env.seedMember(ctx, "g1", "carol", func(m *models.Member) {
		m.MessageCount = 50
		m.XP = 2500
		m.Coins = 30
	})
	env.seedMember(ctx, "g2", "dave", func(m *models.Member) {
		m.MessageCount = 9999
	})
}

func TestTopMembersOrderAndTiebreak(t *testing.T) {
	env := newTestEnv()
	seedBoard(t, env)
	ctx := context.Background()

	top, err := env.stats.TopMembers(ctx, "g1", MetricMessages, 10)
	if err != nil {
		t.Fatalf("TopMembers() error = %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("len = %d, want 3 (limit clamped to member count)", len(top))
	}
	// bob leads; alice and carol tie at 50 and order by member ID.
	want := []string{"bob", "alice", "carol"}
	for i, id := range want {
		if top[i].DiscordID != id {
			t.Errorf("top[%d] = %s, want %s", i, top[i].DiscordID, id)
		}
	}
}

func TestTopMembersLimit(t *testing.T) {
	env := newTestEnv()
	seedBoard(t, env)
	ctx := context.Background()

	top, err := env.stats.TopMembers(ctx, "g1", MetricXP, 2)
	if err != nil {
		t.Fatalf("TopMembers() error = %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].DiscordID != "carol" || top[1].DiscordID != "alice" {
		t.Errorf("top = [%s %s], want [carol alice]", top[0].DiscordID, top[1].DiscordID)
	}

	if _, err := env.stats.TopMembers(ctx, "g1", MetricXP, 0); !errors.Is(err, repositories.ErrInvalidArgument) {
		t.Errorf("TopMembers(limit=0) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := env.stats.TopMembers(ctx, "g1", "bogus", 5); !errors.Is(err, repositories.ErrInvalidArgument) {
		t.Errorf("TopMembers(bogus metric) error = %v, want ErrInvalidArgument", err)
	}
}

func TestRank(t *testing.T) {
	env := newTestEnv()
	seedBoard(t, env)
	ctx := context.Background()

	rank, err := env.stats.Rank(ctx, "g1", "carol", MetricXP)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if rank != 1 {
		t.Errorf("Rank(carol, xp) = %d, want 1", rank)
	}

	rank, err = env.stats.Rank(ctx, "g1", "bob", MetricXP)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if rank != 3 {
		t.Errorf("Rank(bob, xp) = %d, want 3", rank)
	}

	if _, err := env.stats.Rank(ctx, "g1", "dave", MetricXP); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Rank() for another guild's member error = %v, want ErrNotFound", err)
	}
}

func TestGuildStats(t *testing.T) {
	env := newTestEnv()
	seedBoard(t, env)
	ctx := context.Background()

	stats, err := env.stats.Stats(ctx, "g1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.MemberCount != 3 {
		t.Errorf("MemberCount = %d, want 3", stats.MemberCount)
	}
	if stats.TotalMessages != 300 {
		t.Errorf("TotalMessages = %d, want 300", stats.TotalMessages)
	}
	if stats.AverageMessages != 100 {
		t.Errorf("AverageMessages = %v, want 100", stats.AverageMessages)
	}
	if stats.TotalCoins != 50 {
		t.Errorf("TotalCoins = %d, want 50", stats.TotalCoins)
	}
	// carol's 2500 XP is level 5 at the default curve.
	if stats.MaxLevel != 5 {
		t.Errorf("MaxLevel = %d, want 5", stats.MaxLevel)
	}
}

func TestGuildStatsEmptyGuild(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	stats, err := env.stats.Stats(ctx, "empty")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.MemberCount != 0 || stats.AverageMessages != 0 {
		t.Errorf("empty guild stats = %+v, want zero aggregate", stats)
	}
}
