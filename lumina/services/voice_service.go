package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/luminabot/lumina/lumina/achievements"
	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/leveling"
)

// VoiceService accounts voice time from channel transitions. Open sessions
// live in memory only; a crash loses in-flight sessions, which matches the
// at-most-once accounting the minutes model wants.
type VoiceService struct {
	members  repositories.MemberRepository
	configs  repositories.GuildConfigRepository
	locks    *MemberLocks
	calc     *leveling.Calculator
	progress *ProgressService
	quests   *QuestService

	// session start times keyed guild:member
	sessions *xsync.MapOf[string, time.Time]
}

func NewVoiceService(
	members repositories.MemberRepository,
	configs repositories.GuildConfigRepository,
	locks *MemberLocks,
	calc *leveling.Calculator,
	progress *ProgressService,
	quests *QuestService,
) *VoiceService {
	return &VoiceService{
		members:  members,
		configs:  configs,
		locks:    locks,
		calc:     calc,
		progress: progress,
		quests:   quests,
		sessions: xsync.NewMapOf[string, time.Time](),
	}
}

// InSession reports whether the member has an open voice session.
func (s *VoiceService) InSession(guildID, discordID string) bool {
	_, ok := s.sessions.Load(guildID + ":" + discordID)
	return ok
}

// HandleVoiceTransition interprets a channel change. Empty channel IDs mean
// "not in voice": empty→set opens a session, set→empty closes it, set→set
// closes and reopens under one lock so a channel switch loses no elapsed
// time. Repeated states (mute/deafen updates) are ignored.
func (s *VoiceService) HandleVoiceTransition(ctx context.Context, guildID, discordID string, prevChannel, newChannel string, ts time.Time) error {
	if prevChannel == newChannel {
		return nil
	}

	cfg, err := s.configs.Get(ctx, guildID)
	if err != nil {
		return err
	}
	if !cfg.VoiceTrackingEnabled {
		s.sessions.Delete(guildID + ":" + discordID)
		return nil
	}

	unlock := s.locks.Lock(guildID, discordID)
	defer unlock()

	if prevChannel != "" {
		if err := s.closeLocked(ctx, guildID, discordID, ts); err != nil {
			return err
		}
	}
	if newChannel != "" {
		s.sessions.Store(guildID+":"+discordID, ts)
	}
	return nil
}

// Flush closes every open session, crediting elapsed time. Called on
// shutdown so a clean restart doesn't drop in-flight sessions.
func (s *VoiceService) Flush(ctx context.Context, now time.Time) {
	var keys []string
	s.sessions.Range(func(key string, _ time.Time) bool {
		keys = append(keys, key)
		return true
	})
	for _, key := range keys {
		guildID, discordID, ok := strings.Cut(key, ":")
		if !ok {
			continue
		}
		unlock := s.locks.Lock(guildID, discordID)
		if err := s.closeLocked(ctx, guildID, discordID, now); err != nil {
			slog.Error("Failed to flush voice session",
				slog.String("guild_id", guildID),
				slog.String("discord_id", discordID),
				slog.Any("error", err))
		}
		unlock()
	}
}

// closeLocked settles an open session. Caller holds the member key lock.
// Sessions under a minute are dropped whole; partial minutes of longer
// sessions are truncated.
func (s *VoiceService) closeLocked(ctx context.Context, guildID, discordID string, ts time.Time) error {
	start, ok := s.sessions.LoadAndDelete(guildID + ":" + discordID)
	if !ok {
		return nil
	}

	minutes := int64(ts.Sub(start) / time.Minute)
	if minutes <= 0 {
		return nil
	}

	delta := repositories.MemberDelta{
		AddVoiceMinutes:  minutes,
		AddVoiceSessions: 1,
		AddXP:            minutes * s.calc.VoiceMinuteXP(),
		SetLastVoice:     &ts,
	}
	updated, err := s.progress.GrantXP(ctx, guildID, discordID, delta)
	if err != nil {
		// Members who never sent a message have no record; their voice time
		// is not tracked.
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.progress.ApplyBadges(ctx, guildID, discordID, achievements.KindVoiceMinutes, updated.VoiceMinutes); err != nil {
		return err
	}

	if _, err := s.quests.AdvanceProgress(ctx, guildID, discordID, updated.Username, models.QuestTypeVoice, minutes, ts); err != nil {
		return err
	}

	slog.Debug("Voice session closed",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID),
		slog.String("discord_id", discordID),
		slog.Int64("minutes", minutes))
	return nil
}
