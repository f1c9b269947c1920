package lumina

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/luminabot/lumina/lumina/database"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/leveling"
	"github.com/luminabot/lumina/lumina/services"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
		StartedAt: time.Now(),
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string
	StartedAt time.Time

	DB *database.DB

	MemberRepository repositories.MemberRepository
	QuestRepository  repositories.QuestRepository
	ConfigRepository repositories.GuildConfigRepository

	Calculator         *leveling.Calculator
	ActivityService    *services.ActivityService
	VoiceService       *services.VoiceService
	QuestService       *services.QuestService
	ClaimService       *services.ClaimService
	StatsService       *services.StatsService
	MaintenanceService *services.MaintenanceService
	BackupService      *services.BackupService
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMembers,
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
			gateway.IntentGuildVoiceStates,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagVoiceStates)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Lumina is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("the community grow"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}

// GuildCount reports the number of guilds with member records, for the
// health endpoint.
func (b *Bot) GuildCount(ctx context.Context) int {
	if b.MemberRepository == nil {
		return 0
	}
	ids, err := b.MemberRepository.GuildIDs(ctx)
	if err != nil {
		return 0
	}
	return len(ids)
}
