package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/luminabot/lumina/lumina"
	"github.com/luminabot/lumina/lumina/commands"
	"github.com/luminabot/lumina/lumina/database"
	"github.com/luminabot/lumina/lumina/database/memstore"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/handlers"
	"github.com/luminabot/lumina/lumina/leveling"
	"github.com/luminabot/lumina/lumina/logger"
	"github.com/luminabot/lumina/lumina/scheduler"
	"github.com/luminabot/lumina/lumina/services"
	"github.com/luminabot/lumina/lumina/web"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := lumina.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	customHandler := logger.NewHandler(cfg.Log.Level)
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Lumina",
		slog.String("version", version),
		slog.String("commit", commit))

	b := lumina.New(*cfg, version, commit)
	b.Calculator = leveling.NewCalculator(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch cfg.Storage.Backend {
	case "memory":
		slog.Info("Using in-memory storage")
		b.MemberRepository = memstore.NewMemberStore()
		b.QuestRepository = memstore.NewQuestStore()
		b.ConfigRepository = memstore.NewGuildConfigStore()

	default:
		slog.Info("Initializing database connection...")
		dbStartTime := time.Now()

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			slog.Error("Database connection failed",
				slog.String("error", err.Error()),
				slog.Duration("attempted_for", time.Since(dbStartTime)))
			os.Exit(-1)
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			slog.Error("Failed to initialize database schema",
				slog.String("error", err.Error()))
			os.Exit(-1)
		}
		slog.Info("Database connected",
			slog.String("database", cfg.DB.Database),
			slog.Duration("took", time.Since(dbStartTime)))

		b.DB = db
		b.MemberRepository = repositories.NewMemberRepository(db.BunDB())
		b.QuestRepository = repositories.NewQuestRepository(db.BunDB())
		b.ConfigRepository = repositories.NewGuildConfigRepository(db.BunDB())
	}

	notifier := handlers.NewDiscordNotifier(func() bot.Client { return b.Client }, b.ConfigRepository)

	locks := services.NewMemberLocks()
	progress := services.NewProgressService(b.MemberRepository, b.ConfigRepository, b.Calculator, notifier)
	b.QuestService = services.NewQuestService(b.QuestRepository, progress, notifier)
	b.VoiceService = services.NewVoiceService(b.MemberRepository, b.ConfigRepository, locks, b.Calculator, progress, b.QuestService)
	b.ActivityService = services.NewActivityService(b.MemberRepository, locks, b.Calculator, progress, b.QuestService, b.VoiceService)
	b.ClaimService = services.NewClaimService(b.MemberRepository, b.ConfigRepository, locks, b.Calculator, progress, b.QuestService)
	b.StatsService = services.NewStatsService(b.MemberRepository, b.Calculator)
	b.MaintenanceService = services.NewMaintenanceService(b.MemberRepository, b.QuestRepository, b.StatsService)

	if cfg.BackupEnabled() {
		backup, err := services.NewBackupService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			b.MemberRepository,
			b.QuestRepository,
		)
		if err != nil {
			slog.Error("Failed to initialize backup service", slog.Any("error", err))
			os.Exit(-1)
		}
		b.BackupService = backup
	}

	h := handler.New()
	h.Command("/profile", handlers.WrapWithLogging("profile", commands.ProfileHandler(b)))
	h.Command("/balance", handlers.WrapWithLogging("balance", commands.BalanceHandler(b)))
	h.Command("/daily", handlers.WrapWithLogging("daily", commands.DailyHandler(b)))
	h.Command("/work", handlers.WrapWithLogging("work", commands.WorkHandler(b)))
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", commands.LeaderboardHandler(b)))
	h.Command("/rank", handlers.WrapWithLogging("rank", commands.RankHandler(b)))
	h.Command("/stats", handlers.WrapWithLogging("stats", commands.StatsHandler(b)))
	h.Command("/badges", handlers.WrapWithLogging("badges", commands.BadgesHandler(b)))
	h.Command("/quests", handlers.WrapWithLogging("quests", commands.QuestsHandler(b)))
	h.Command("/voice-stats", handlers.WrapWithLogging("voice-stats", commands.VoiceStatsHandler(b)))
	h.Command("/config", handlers.WrapWithLogging("config", commands.ConfigHandler(b)))
	h.Command("/backup", handlers.WrapWithLogging("backup", commands.BackupHandler(b)))
	h.Command("/version", commands.VersionHandler(b))

	inviteTracker := handlers.NewInviteTracker(b.ActivityService, b.ConfigRepository)

	if err = b.SetupBot(h,
		bot.NewListenerFunc(b.OnReady),
		handlers.MessageHandler(b.ActivityService),
		handlers.VoiceHandler(b.VoiceService),
		inviteTracker.Listener(func() bot.Client { return b.Client }),
	); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
		)
		os.Exit(-1)
	}

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		b.VoiceService.Flush(shutdownCtx, time.Now())
		b.Client.Close(shutdownCtx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
			)
		}
	}

	sched, err := scheduler.New(b.MemberRepository, b.QuestService, b.MaintenanceService, b.BackupService)
	if err != nil {
		slog.Error("Failed to create scheduler", slog.Any("error", err))
		os.Exit(-1)
	}
	if err := sched.Start(); err != nil {
		slog.Error("Failed to start scheduler", slog.Any("error", err))
		os.Exit(-1)
	}
	defer sched.Shutdown()

	if cfg.Web.Addr != "" {
		srv := web.New(cfg.Web.Addr, func() web.Status {
			statusCtx, statusCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer statusCancel()
			return web.Status{
				Status:  "ok",
				Version: version,
				Guilds:  b.GuildCount(statusCtx),
				Uptime:  time.Since(b.StartedAt).Round(time.Second).String(),
			}
		})
		srv.Start()
		defer srv.Shutdown()
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
		)
		os.Exit(-1)
	}

	slog.Info("Lumina is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down...")
}
