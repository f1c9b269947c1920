package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
)

func TestClaimDailyStreakGrowth(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	env.seedMember(ctx, "g1", "alice", func(m *models.Member) {
		m.Streak = 6
		m.LastDaily = now.AddDate(0, 0, -1)
	})

	res, err := env.claims.ClaimDaily(ctx, "g1", "alice", now)
	if err != nil {
		t.Fatalf("ClaimDaily() error = %v", err)
	}
	if res.OnCooldown {
		t.Fatal("ClaimDaily() reported cooldown on a fresh day")
	}
	if res.Streak != 7 {
		t.Errorf("Streak = %d, want 7", res.Streak)
	}
	if res.Reward != 160 {
		t.Errorf("Reward = %d, want 160", res.Reward)
	}
	if !res.Member.HasBadge("streak_7") {
		t.Errorf("streak_7 badge not unlocked, badges = %v", res.Member.Badges)
	}
}

func TestClaimDailySameDayIsCooldown(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	env.seedMember(ctx, "g1", "alice", nil)

	first, err := env.claims.ClaimDaily(ctx, "g1", "alice", now)
	if err != nil {
		t.Fatalf("first ClaimDaily() error = %v", err)
	}
	if first.OnCooldown {
		t.Fatal("first claim reported cooldown")
	}

	second, err := env.claims.ClaimDaily(ctx, "g1", "alice", now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("second ClaimDaily() error = %v", err)
	}
	if !second.OnCooldown {
		t.Fatal("second same-day claim did not report cooldown")
	}
	if want := 13 * time.Hour; second.RetryIn != want {
		t.Errorf("RetryIn = %v, want %v", second.RetryIn, want)
	}
	if second.Member.Coins != first.Member.Coins {
		t.Errorf("cooldown claim mutated coins: %d -> %d", first.Member.Coins, second.Member.Coins)
	}
	if second.Member.Streak != first.Member.Streak {
		t.Errorf("cooldown claim mutated streak: %d -> %d", first.Member.Streak, second.Member.Streak)
	}
}

func TestClaimDailySkippedDayResetsStreak(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	env.seedMember(ctx, "g1", "alice", func(m *models.Member) {
		m.Streak = 12
		m.LastDaily = now.AddDate(0, 0, -3)
	})

	res, err := env.claims.ClaimDaily(ctx, "g1", "alice", now)
	if err != nil {
		t.Fatalf("ClaimDaily() error = %v", err)
	}
	if res.Streak != 1 {
		t.Errorf("Streak = %d, want 1 after a skipped day", res.Streak)
	}
	if res.Reward != 100 {
		t.Errorf("Reward = %d, want base 100", res.Reward)
	}
}

func TestClaimDailyStreakBonusDisabled(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	env.seedMember(ctx, "g1", "alice", func(m *models.Member) {
		m.Streak = 6
		m.LastDaily = now.AddDate(0, 0, -1)
	})
	off := false
	if _, err := env.configs.Upsert(ctx, "g1", models.GuildConfigPatch{StreakBonus: &off}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	res, err := env.claims.ClaimDaily(ctx, "g1", "alice", now)
	if err != nil {
		t.Fatalf("ClaimDaily() error = %v", err)
	}
	// Streak still advances; only the payout scaling is disabled.
	if res.Streak != 7 {
		t.Errorf("Streak = %d, want 7", res.Streak)
	}
	if res.Reward != 100 {
		t.Errorf("Reward = %d, want base 100 with streak bonus off", res.Reward)
	}
}

func TestClaimDailyMissingMember(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := env.claims.ClaimDaily(ctx, "g1", "ghost", now); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("ClaimDaily() error = %v, want ErrNotFound", err)
	}
}

func TestClaimWorkCooldown(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	env.seedMember(ctx, "g1", "alice", nil)

	first, err := env.claims.ClaimWork(ctx, "g1", "alice", now)
	if err != nil {
		t.Fatalf("first ClaimWork() error = %v", err)
	}
	if first.OnCooldown {
		t.Fatal("first work claim reported cooldown")
	}
	if first.Reward < 50 || first.Reward > 200 {
		t.Errorf("Reward = %d, want in [50, 200]", first.Reward)
	}

	second, err := env.claims.ClaimWork(ctx, "g1", "alice", now.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("second ClaimWork() error = %v", err)
	}
	if !second.OnCooldown {
		t.Fatal("work claim inside cooldown did not report cooldown")
	}
	if want := 5 * time.Hour; second.RetryIn != want {
		t.Errorf("RetryIn = %v, want %v", second.RetryIn, want)
	}
	if second.Member.Coins != first.Member.Coins {
		t.Errorf("cooldown claim mutated coins: %d -> %d", first.Member.Coins, second.Member.Coins)
	}

	third, err := env.claims.ClaimWork(ctx, "g1", "alice", now.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("third ClaimWork() error = %v", err)
	}
	if third.OnCooldown {
		t.Error("work claim after cooldown expiry reported cooldown")
	}
}

func TestClaimsDisabledByConfig(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	env.seedMember(ctx, "g1", "alice", nil)
	off := false
	if _, err := env.configs.Upsert(ctx, "g1", models.GuildConfigPatch{EconomyEnabled: &off}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if _, err := env.claims.ClaimDaily(ctx, "g1", "alice", now); !errors.Is(err, repositories.ErrInvalidArgument) {
		t.Errorf("ClaimDaily() error = %v, want ErrInvalidArgument", err)
	}
	if _, err := env.claims.ClaimWork(ctx, "g1", "alice", now); !errors.Is(err, repositories.ErrInvalidArgument) {
		t.Errorf("ClaimWork() error = %v, want ErrInvalidArgument", err)
	}
}
