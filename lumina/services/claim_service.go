package services

import (
	"context"
	"fmt"
	"time"

	"github.com/luminabot/lumina/lumina/achievements"
	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/leveling"
)

// ClaimService handles the daily and work economy claims. A claim inside
// its cooldown window is a normal outcome, not an error: the result carries
// OnCooldown and the remaining wait so commands can render it.
type ClaimService struct {
	members  repositories.MemberRepository
	configs  repositories.GuildConfigRepository
	locks    *MemberLocks
	calc     *leveling.Calculator
	progress *ProgressService
	quests   *QuestService
}

func NewClaimService(
	members repositories.MemberRepository,
	configs repositories.GuildConfigRepository,
	locks *MemberLocks,
	calc *leveling.Calculator,
	progress *ProgressService,
	quests *QuestService,
) *ClaimService {
	return &ClaimService{
		members:  members,
		configs:  configs,
		locks:    locks,
		calc:     calc,
		progress: progress,
		quests:   quests,
	}
}

// ClaimResult is the outcome of a daily or work claim. When OnCooldown is
// set the claim changed nothing and RetryIn says how long until the next
// attempt can succeed; otherwise Member reflects the post-claim record.
type ClaimResult struct {
	Member *models.Member
	Reward int64
	Streak int

	OnCooldown bool
	RetryIn    time.Duration
}

// ClaimDaily grants the daily reward once per UTC calendar day. Claiming on
// consecutive days grows the streak; skipping a day resets it to 1. The
// streak bonus scaling can be disabled per guild, in which case every claim
// pays the base reward.
func (s *ClaimService) ClaimDaily(ctx context.Context, guildID, discordID string, now time.Time) (*ClaimResult, error) {
	cfg, err := s.configs.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !cfg.DailyRewardEnabled || !cfg.EconomyEnabled {
		return nil, fmt.Errorf("%w: daily rewards are disabled in this guild", repositories.ErrInvalidArgument)
	}

	unlock := s.locks.Lock(guildID, discordID)
	defer unlock()

	member, err := s.members.Get(ctx, guildID, discordID)
	if err != nil {
		return nil, err
	}

	if !member.LastDaily.IsZero() && sameUTCDay(member.LastDaily, now) {
		return &ClaimResult{
			Member:     member,
			Streak:     member.Streak,
			OnCooldown: true,
			RetryIn:    nextMidnightUTC(now).Sub(now),
		}, nil
	}

	streak := 1
	if !member.LastDaily.IsZero() && sameUTCDay(member.LastDaily.AddDate(0, 0, 1), now) {
		streak = member.Streak + 1
	}

	rewardStreak := streak
	if !cfg.StreakBonus {
		rewardStreak = 1
	}
	reward := s.calc.DailyReward(rewardStreak)

	updated, err := s.members.Update(ctx, guildID, discordID, repositories.MemberDelta{
		AddCoins:     reward,
		SetStreak:    &streak,
		SetLastDaily: &now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.progress.ApplyBadges(ctx, guildID, discordID, achievements.KindStreak, int64(streak)); err != nil {
		return nil, err
	}

	if _, err := s.quests.AdvanceProgress(ctx, guildID, discordID, updated.Username, models.QuestTypeDaily, 1, now); err != nil {
		return nil, err
	}

	updated, err = s.members.Get(ctx, guildID, discordID)
	if err != nil {
		return nil, err
	}
	return &ClaimResult{Member: updated, Reward: reward, Streak: streak}, nil
}

// ClaimWork pays a random reward on an 8-hour cooldown. Work does not
// interact with streaks or quests.
func (s *ClaimService) ClaimWork(ctx context.Context, guildID, discordID string, now time.Time) (*ClaimResult, error) {
	cfg, err := s.configs.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !cfg.EconomyEnabled {
		return nil, fmt.Errorf("%w: the economy is disabled in this guild", repositories.ErrInvalidArgument)
	}

	unlock := s.locks.Lock(guildID, discordID)
	defer unlock()

	member, err := s.members.Get(ctx, guildID, discordID)
	if err != nil {
		return nil, err
	}

	if !member.LastWork.IsZero() {
		elapsed := now.Sub(member.LastWork)
		if elapsed < s.calc.WorkCooldown() {
			return &ClaimResult{
				Member:     member,
				Streak:     member.Streak,
				OnCooldown: true,
				RetryIn:    s.calc.WorkCooldown() - elapsed,
			}, nil
		}
	}

	reward := s.calc.WorkReward()
	updated, err := s.members.Update(ctx, guildID, discordID, repositories.MemberDelta{
		AddCoins:    reward,
		SetLastWork: &now,
	})
	if err != nil {
		return nil, err
	}
	return &ClaimResult{Member: updated, Reward: reward, Streak: updated.Streak}, nil
}
