package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
)

func TestPurgeStaleData(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, -1, 0)
	maint := NewMaintenanceService(env.members, env.quests, env.stats)

	// Stale and empty: purged.
	env.seedMember(ctx, "g1", "lurker", func(m *models.Member) {
		m.Joined = now.AddDate(0, -6, 0)
	})
	// Stale but with progression: kept.
	env.seedMember(ctx, "g1", "veteran", func(m *models.Member) {
		m.XP = 500
		m.LastMessageAt = now.AddDate(0, -6, 0)
	})
	// Empty but recently active: kept.
	env.seedMember(ctx, "g1", "newcomer", func(m *models.Member) {
		m.LastMessageAt = now.AddDate(0, 0, -2)
	})

	_, purged, err := maint.PurgeStaleData(ctx, cutoff)
	if err != nil {
		t.Fatalf("PurgeStaleData() error = %v", err)
	}
	if purged != 1 {
		t.Errorf("purged %d members, want 1", purged)
	}

	if _, err := env.members.Get(ctx, "g1", "lurker"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("lurker still present, Get() error = %v", err)
	}
	if _, err := env.members.Get(ctx, "g1", "veteran"); err != nil {
		t.Errorf("veteran was purged: %v", err)
	}
	if _, err := env.members.Get(ctx, "g1", "newcomer"); err != nil {
		t.Errorf("newcomer was purged: %v", err)
	}
}
