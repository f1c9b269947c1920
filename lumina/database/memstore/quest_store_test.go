package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
)

func newQuest(guildID, discordID, questID string, expiresAt time.Time) *models.MemberQuest {
	return &models.MemberQuest{
		GuildID:   guildID,
		DiscordID: discordID,
		QuestID:   questID,
		Type:      models.QuestTypeMessage,
		ExpiresAt: expiresAt,
	}
}

func TestQuestStoreProgressIsMonotonic(t *testing.T) {
	store := NewQuestStore()
	ctx := context.Background()
	expiry := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	if err := store.Create(ctx, newQuest("g1", "alice", "q1", expiry)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.SetProgress(ctx, "g1", "alice", "q1", 5); err != nil {
		t.Fatalf("SetProgress(5) error = %v", err)
	}
	// Lowering progress violates the one-way invariant and is refused.
	if err := store.SetProgress(ctx, "g1", "alice", "q1", 3); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("SetProgress(3) error = %v, want refusal", err)
	}

	quests, err := store.GetByMember(ctx, "g1", "alice")
	if err != nil {
		t.Fatalf("GetByMember() error = %v", err)
	}
	if quests[0].Progress != 5 {
		t.Errorf("Progress = %d, want 5", quests[0].Progress)
	}
}

func TestQuestStoreCompletionIsOneWay(t *testing.T) {
	store := NewQuestStore()
	ctx := context.Background()
	expiry := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if err := store.Create(ctx, newQuest("g1", "alice", "q1", expiry)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.MarkCompleted(ctx, "g1", "alice", "q1", now); err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}
	// Second completion reports failure so the caller grants the reward
	// exactly once.
	if err := store.MarkCompleted(ctx, "g1", "alice", "q1", now.Add(time.Minute)); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("second MarkCompleted() error = %v, want refusal", err)
	}
	// Completed quests accept no further progress.
	if err := store.SetProgress(ctx, "g1", "alice", "q1", 99); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("SetProgress() on completed quest error = %v, want refusal", err)
	}
}

func TestQuestStoreDuplicateCreate(t *testing.T) {
	store := NewQuestStore()
	ctx := context.Background()
	expiry := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	if err := store.Create(ctx, newQuest("g1", "alice", "q1", expiry)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, newQuest("g1", "alice", "q1", expiry)); !errors.Is(err, repositories.ErrAlreadyExists) {
		t.Errorf("duplicate Create() error = %v, want ErrAlreadyExists", err)
	}
}

func TestQuestStoreDeleteExpiredBefore(t *testing.T) {
	store := NewQuestStore()
	ctx := context.Background()
	old := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	fresh := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	if err := store.Create(ctx, newQuest("g1", "alice", "stale", old)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, newQuest("g1", "alice", "live", fresh)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	removed, err := store.DeleteExpiredBefore(ctx, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DeleteExpiredBefore() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	quests, err := store.GetByMember(ctx, "g1", "alice")
	if err != nil {
		t.Fatalf("GetByMember() error = %v", err)
	}
	if len(quests) != 1 || quests[0].QuestID != "live" {
		t.Errorf("surviving quests = %+v, want only live", quests)
	}
}

func TestQuestStoreDeleteByGuild(t *testing.T) {
	store := NewQuestStore()
	ctx := context.Background()
	expiry := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	if err := store.Create(ctx, newQuest("g1", "alice", "q1", expiry)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, newQuest("g2", "bob", "q1", expiry)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.DeleteByGuild(ctx, "g1"); err != nil {
		t.Fatalf("DeleteByGuild() error = %v", err)
	}

	g1, _ := store.GetByGuild(ctx, "g1")
	g2, _ := store.GetByGuild(ctx, "g2")
	if len(g1) != 0 {
		t.Errorf("g1 still has %d quests after DeleteByGuild", len(g1))
	}
	if len(g2) != 1 {
		t.Errorf("g2 lost quests: %d remain, want 1", len(g2))
	}
}
