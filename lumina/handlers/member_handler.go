package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/services"
)

// InviteTracker credits inviters when new members join. It keeps a per-guild
// snapshot of invite use counts; on join, the invite whose count grew names
// the inviter. Vanity URLs and expired invites simply find no match. The
// first join after startup only seeds the snapshot: with no baseline to
// diff against, nobody is credited.
type InviteTracker struct {
	activity *services.ActivityService
	configs  repositories.GuildConfigRepository

	// invite code -> uses, per guild
	uses *xsync.MapOf[snowflake.ID, map[string]int]
}

func NewInviteTracker(activity *services.ActivityService, configs repositories.GuildConfigRepository) *InviteTracker {
	return &InviteTracker{
		activity: activity,
		configs:  configs,
		uses:     xsync.NewMapOf[snowflake.ID, map[string]int](),
	}
}

// Listener returns the gateway listener handling member join events.
func (t *InviteTracker) Listener(client func() bot.Client) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMemberJoin) {
		if e.Member.User.Bot {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()

		t.handleJoin(ctx, client(), e)
	})
}

func (t *InviteTracker) handleJoin(ctx context.Context, client bot.Client, e *events.GuildMemberJoin) {
	inviterID := t.resolveInviter(client, e.GuildID)
	if inviterID != "" {
		if err := t.activity.RecordInvite(ctx, e.GuildID.String(), inviterID, time.Now()); err != nil {
			slog.Error("Failed to record invite",
				slog.String("type", "error"),
				slog.String("guild_id", e.GuildID.String()),
				slog.String("inviter_id", inviterID),
				slog.Any("error", err))
		}
	}

	t.welcome(ctx, client, e)
}

// resolveInviter diffs the guild's invite uses against the last snapshot.
// The typed invite route drops use counts, so the endpoint is decoded into
// extended invites directly.
func (t *InviteTracker) resolveInviter(client bot.Client, guildID snowflake.ID) string {
	var invites []discord.ExtendedInvite
	if err := client.Rest().Do(rest.GetGuildInvites.Compile(nil, guildID), nil, &invites); err != nil {
		slog.Debug("Failed to fetch guild invites",
			slog.String("guild_id", guildID.String()),
			slog.Any("error", err))
		return ""
	}

	prev, _ := t.uses.Load(guildID)
	next, inviterID := diffInviteUses(prev, invites)
	t.uses.Store(guildID, next)
	return inviterID
}

// diffInviteUses builds the next snapshot and names the inviter whose invite
// gained a use. A nil previous snapshot seeds without attributing.
func diffInviteUses(prev map[string]int, invites []discord.ExtendedInvite) (map[string]int, string) {
	next := make(map[string]int, len(invites))
	inviterID := ""
	for _, invite := range invites {
		next[invite.Code] = invite.Uses
		if prev != nil && invite.Uses > prev[invite.Code] && invite.Inviter != nil {
			inviterID = invite.Inviter.ID.String()
		}
	}
	return next, inviterID
}

func (t *InviteTracker) welcome(ctx context.Context, client bot.Client, e *events.GuildMemberJoin) {
	cfg, err := t.configs.Get(ctx, e.GuildID.String())
	if err != nil || cfg.WelcomeChannelID == "" {
		return
	}
	channelID, err := snowflake.Parse(cfg.WelcomeChannelID)
	if err != nil {
		return
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Welcome!").
		SetDescription(fmt.Sprintf("Welcome to the server, %s! Start chatting to earn XP and badges.", e.Member.User.Username)).
		SetColor(0x57F287).
		Build()
	if _, err := client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().SetEmbeds(embed).Build()); err != nil {
		slog.Debug("Failed to send welcome message",
			slog.String("guild_id", e.GuildID.String()),
			slog.Any("error", err))
	}
}
