// Package scheduler runs the recurring maintenance jobs: the daily quest
// reset at midnight UTC, the weekly backup export, and the monthly stale
// data purge.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/logger"
	"github.com/luminabot/lumina/lumina/services"
)

const jobTimeout = 10 * time.Minute

// Retention window for stale quest instances and empty member records.
const staleAfter = 90 * 24 * time.Hour

type Scheduler struct {
	sched       gocron.Scheduler
	members     repositories.MemberRepository
	quests      *services.QuestService
	maintenance *services.MaintenanceService
	backup      *services.BackupService
}

func New(
	members repositories.MemberRepository,
	quests *services.QuestService,
	maintenance *services.MaintenanceService,
	backup *services.BackupService,
) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		sched:       sched,
		members:     members,
		quests:      quests,
		maintenance: maintenance,
		backup:      backup,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
		gocron.NewTask(s.resetDailyQuests),
	); err != nil {
		return err
	}

	if s.backup != nil {
		if _, err := s.sched.NewJob(
			gocron.WeeklyJob(1,
				gocron.NewWeekdays(time.Sunday),
				gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
			gocron.NewTask(s.exportBackups),
		); err != nil {
			return err
		}
	}

	if _, err := s.sched.NewJob(
		gocron.MonthlyJob(1,
			gocron.NewDaysOfTheMonth(1),
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(s.purgeStaleData),
	); err != nil {
		return err
	}

	s.sched.Start()
	logger.LogSystem("Scheduler started", slog.Int("jobs", len(s.sched.Jobs())))
	return nil
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) resetDailyQuests() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	guildIDs, err := s.members.GuildIDs(ctx)
	if err != nil {
		logger.LogError("Quest reset failed to list guilds", err)
		return
	}
	for _, guildID := range guildIDs {
		if err := s.quests.ResetDaily(ctx, guildID); err != nil {
			logger.LogError("Quest reset failed", err, slog.String("guild_id", guildID))
		}
	}
}

func (s *Scheduler) exportBackups() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.backup.ExportAll(ctx, time.Now()); err != nil {
		logger.LogError("Scheduled backup failed", err)
	}
}

func (s *Scheduler) purgeStaleData() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, _, err := s.maintenance.PurgeStaleData(ctx, time.Now().Add(-staleAfter)); err != nil {
		logger.LogError("Stale data purge failed", err)
	}
}
