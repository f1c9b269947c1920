package services

import (
	"context"
	"testing"
	"time"
)

func TestHandleMessageFirstContact(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	member, err := env.activity.HandleMessage(ctx, "g1", "alice", "alice", "", ts)
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if member.MessageCount != 1 {
		t.Errorf("MessageCount = %d, want 1", member.MessageCount)
	}
	if member.XP != 10 {
		t.Errorf("XP = %d, want 10", member.XP)
	}
	if !member.HasBadge("first_message") {
		t.Errorf("first_message badge not unlocked, badges = %v", member.Badges)
	}
	if !member.LastMessageAt.Equal(ts) {
		t.Errorf("LastMessageAt = %v, want %v", member.LastMessageAt, ts)
	}

	quests, err := env.questSvc.ListQuests(ctx, "g1", "alice", "active", ts)
	if err != nil {
		t.Fatalf("ListQuests() error = %v", err)
	}
	var found bool
	for _, q := range quests {
		if q.QuestID == "daily_messages_10" {
			found = true
			if q.Progress != 1 {
				t.Errorf("message quest progress = %d, want 1", q.Progress)
			}
		}
	}
	if !found {
		t.Error("daily_messages_10 quest was not assigned")
	}
}

func TestHandleMessageLevelUpExactlyOnce(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Ten messages earn 100 XP, the level 1 threshold. The tenth message
	// also completes the message quest, whose 100 reward XP lands inside
	// level 1 and must not fire a second level-up.
	for i := 0; i < 10; i++ {
		if _, err := env.activity.HandleMessage(ctx, "g1", "alice", "alice", "", ts.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("HandleMessage() #%d error = %v", i+1, err)
		}
	}

	member, err := env.members.Get(ctx, "g1", "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if member.XP != 200 {
		t.Errorf("XP = %d, want 200 (100 from messages + 100 quest reward)", member.XP)
	}
	if got := env.calc.LevelForXP(member.XP); got != 1 {
		t.Errorf("level = %d, want 1", got)
	}
	// 10 coins for reaching level 1, 50 from the quest.
	if member.Coins != 60 {
		t.Errorf("Coins = %d, want 60", member.Coins)
	}

	levelUps := env.notes.byKind(NotifyLevelUp)
	if len(levelUps) != 1 {
		t.Fatalf("got %d level_up notifications, want 1", len(levelUps))
	}
	if levelUps[0].LevelUp.NewLevel != 1 {
		t.Errorf("NewLevel = %d, want 1", levelUps[0].LevelUp.NewLevel)
	}
	if levelUps[0].LevelUp.RewardCoins != 10 {
		t.Errorf("RewardCoins = %d, want 10", levelUps[0].LevelUp.RewardCoins)
	}

	completions := env.notes.byKind(NotifyQuestComplete)
	if len(completions) != 1 || completions[0].Quest.QuestID != "daily_messages_10" {
		t.Errorf("quest completions = %+v, want exactly daily_messages_10", completions)
	}
}

func TestHandleMessageCountsMessagesInVoice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if _, err := env.activity.HandleMessage(ctx, "g1", "alice", "alice", "", ts); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := env.voice.HandleVoiceTransition(ctx, "g1", "alice", "", "voice-1", ts); err != nil {
		t.Fatalf("HandleVoiceTransition() error = %v", err)
	}

	member, err := env.activity.HandleMessage(ctx, "g1", "alice", "alice", "", ts.Add(time.Minute))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if member.MessagesInVoice != 1 {
		t.Errorf("MessagesInVoice = %d, want 1", member.MessagesInVoice)
	}
	if member.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", member.MessageCount)
	}
}

func TestRecordInviteUnregisteredInviter(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if err := env.activity.RecordInvite(ctx, "g1", "ghost", ts); err != nil {
		t.Errorf("RecordInvite() for unregistered inviter error = %v, want nil", err)
	}
}

func TestRecordInviteCompletesQuest(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	env.seedMember(ctx, "g1", "alice", nil)
	if err := env.activity.RecordInvite(ctx, "g1", "alice", ts); err != nil {
		t.Fatalf("RecordInvite() error = %v", err)
	}

	member, err := env.members.Get(ctx, "g1", "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !member.HasBadge("social_butterfly") {
		t.Errorf("social_butterfly badge not unlocked, badges = %v", member.Badges)
	}
	// 100 quest coins plus 10 for the level-up its 200 reward XP causes.
	if member.Coins != 110 {
		t.Errorf("Coins = %d, want 110", member.Coins)
	}
	if member.XP != 200 {
		t.Errorf("XP = %d, want 200", member.XP)
	}
}
