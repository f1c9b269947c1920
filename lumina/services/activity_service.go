package services

import (
	"context"
	"errors"
	"time"

	"github.com/luminabot/lumina/lumina/achievements"
	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/leveling"
)

// ActivityService is the message-path entry point. It is the only place a
// member record is created implicitly: the first message registers the
// member. Every other path requires an existing record.
type ActivityService struct {
	members  repositories.MemberRepository
	locks    *MemberLocks
	calc     *leveling.Calculator
	progress *ProgressService
	quests   *QuestService
	voice    *VoiceService
}

func NewActivityService(
	members repositories.MemberRepository,
	locks *MemberLocks,
	calc *leveling.Calculator,
	progress *ProgressService,
	quests *QuestService,
	voice *VoiceService,
) *ActivityService {
	return &ActivityService{
		members:  members,
		locks:    locks,
		calc:     calc,
		progress: progress,
		quests:   quests,
		voice:    voice,
	}
}

// HandleMessage credits one message: +1 count, message XP, achievements,
// message quests and the level-up check. The member record is created on
// first contact.
func (s *ActivityService) HandleMessage(ctx context.Context, guildID, discordID, username, avatar string, ts time.Time) (*models.Member, error) {
	unlock := s.locks.Lock(guildID, discordID)
	defer unlock()

	if err := s.ensureMember(ctx, guildID, discordID, username, avatar, ts); err != nil {
		return nil, err
	}

	delta := repositories.MemberDelta{
		AddMessages:    1,
		AddXP:          s.calc.MessageXP(),
		SetLastMessage: &ts,
		SetUsername:    &username,
	}
	if avatar != "" {
		delta.SetAvatar = &avatar
	}
	if s.voice != nil && s.voice.InSession(guildID, discordID) {
		delta.AddMessagesInVoice = 1
	}

	updated, err := s.progress.GrantXP(ctx, guildID, discordID, delta)
	if err != nil {
		return nil, err
	}

	if err := s.progress.ApplyBadges(ctx, guildID, discordID, achievements.KindMessages, updated.MessageCount); err != nil {
		return nil, err
	}

	if _, err := s.quests.AdvanceProgress(ctx, guildID, discordID, username, models.QuestTypeMessage, 1, ts); err != nil {
		return nil, err
	}

	return s.members.Get(ctx, guildID, discordID)
}

// RecordInvite credits an inviter for a new member joining and advances
// invite quests. Unregistered inviters are ignored; the invite quest badge
// comes from the quest reward, not from here.
func (s *ActivityService) RecordInvite(ctx context.Context, guildID, inviterID string, ts time.Time) error {
	unlock := s.locks.Lock(guildID, inviterID)
	defer unlock()

	member, err := s.members.Get(ctx, guildID, inviterID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	_, err = s.quests.AdvanceProgress(ctx, guildID, inviterID, member.Username, models.QuestTypeInvite, 1, ts)
	return err
}

func (s *ActivityService) ensureMember(ctx context.Context, guildID, discordID, username, avatar string, ts time.Time) error {
	err := s.members.Create(ctx, &models.Member{
		GuildID:   guildID,
		DiscordID: discordID,
		Username:  username,
		Avatar:    avatar,
		Joined:    ts,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if errors.Is(err, repositories.ErrAlreadyExists) {
		return nil
	}
	return err
}
