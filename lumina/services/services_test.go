package services

import (
	"context"
	"sync"
	"time"

	"github.com/luminabot/lumina/lumina/database/memstore"
	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/leveling"
)

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) byKind(kind string) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Notification
	for _, n := range r.sent {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

type testEnv struct {
	members *memstore.MemberStore
	quests  *memstore.QuestStore
	configs *memstore.GuildConfigStore
	calc    *leveling.Calculator
	notes   *recordingNotifier

	progress *ProgressService
	questSvc *QuestService
	voice    *VoiceService
	activity *ActivityService
	claims   *ClaimService
	stats    *StatsService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		members: memstore.NewMemberStore(),
		quests:  memstore.NewQuestStore(),
		configs: memstore.NewGuildConfigStore(),
		calc:    leveling.NewCalculator(nil),
		notes:   &recordingNotifier{},
	}
	locks := NewMemberLocks()
	env.progress = NewProgressService(env.members, env.configs, env.calc, env.notes)
	env.questSvc = NewQuestService(env.quests, env.progress, env.notes)
	env.voice = NewVoiceService(env.members, env.configs, locks, env.calc, env.progress, env.questSvc)
	env.activity = NewActivityService(env.members, locks, env.calc, env.progress, env.questSvc, env.voice)
	env.claims = NewClaimService(env.members, env.configs, locks, env.calc, env.progress, env.questSvc)
	env.stats = NewStatsService(env.members, env.calc)
	return env
}

func (env *testEnv) seedMember(ctx context.Context, guildID, discordID string, mutate func(*models.Member)) *models.Member {
	m := &models.Member{
		GuildID:   guildID,
		DiscordID: discordID,
		Username:  discordID,
		Joined:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(m)
	}
	if err := env.members.Create(ctx, m); err != nil {
		panic(err)
	}
	return m
}
