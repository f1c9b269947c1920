package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/services"
)

// DiscordNotifier renders progression notifications as embeds in the
// guild's log channel and grants configured auto-roles. Delivery happens on
// a separate goroutine so the activity hot path never waits on Discord.
type DiscordNotifier struct {
	client  func() bot.Client
	configs repositories.GuildConfigRepository
}

var _ services.Notifier = (*DiscordNotifier)(nil)

// client is a getter because the bot client is constructed after the
// service graph.
func NewDiscordNotifier(client func() bot.Client, configs repositories.GuildConfigRepository) *DiscordNotifier {
	return &DiscordNotifier{client: client, configs: configs}
}

func (n *DiscordNotifier) Notify(_ context.Context, notification services.Notification) {
	go n.deliver(notification)
}

func (n *DiscordNotifier) deliver(notification services.Notification) {
	client := n.client()
	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if notification.Kind == services.NotifyLevelUp && notification.LevelUp != nil && notification.LevelUp.AutoRoleID != "" {
		n.grantRole(notification, notification.LevelUp.AutoRoleID, client)
	}

	cfg, err := n.configs.Get(ctx, notification.GuildID)
	if err != nil || cfg.LogChannelID == "" {
		return
	}
	channelID, err := snowflake.Parse(cfg.LogChannelID)
	if err != nil {
		return
	}

	embed, ok := n.buildEmbed(notification)
	if !ok {
		return
	}
	if _, err := client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().SetEmbeds(embed).Build()); err != nil {
		slog.Debug("Failed to deliver notification",
			slog.String("guild_id", notification.GuildID),
			slog.String("kind", notification.Kind),
			slog.Any("error", err))
	}
}

func (n *DiscordNotifier) buildEmbed(notification services.Notification) (discord.Embed, bool) {
	switch notification.Kind {
	case services.NotifyLevelUp:
		lu := notification.LevelUp
		if lu == nil {
			return discord.Embed{}, false
		}
		return discord.NewEmbedBuilder().
			SetTitle("🎉 Level Up!").
			SetDescription(fmt.Sprintf("**%s** reached level **%d**!", notification.Username, lu.NewLevel)).
			AddField("Reward", fmt.Sprintf("%d 💰", lu.RewardCoins), true).
			AddField("Next Level", fmt.Sprintf("%d XP", lu.NextLevelXP), true).
			SetColor(0xFEE75C).
			Build(), true

	case services.NotifyQuestComplete:
		q := notification.Quest
		if q == nil {
			return discord.Embed{}, false
		}
		reward := fmt.Sprintf("%d 💰, %d XP", q.RewardCoins, q.RewardXP)
		if q.RewardBadge != "" {
			reward += fmt.Sprintf(", badge `%s`", q.RewardBadge)
		}
		return discord.NewEmbedBuilder().
			SetTitle("✅ Quest Complete").
			SetDescription(fmt.Sprintf("**%s** finished **%s**", notification.Username, q.Name)).
			AddField("Reward", reward, false).
			SetColor(0x57F287).
			Build(), true
	}
	return discord.Embed{}, false
}

func (n *DiscordNotifier) grantRole(notification services.Notification, roleID string, client bot.Client) {
	guildID, err := snowflake.Parse(notification.GuildID)
	if err != nil {
		return
	}
	userID, err := snowflake.Parse(notification.DiscordID)
	if err != nil {
		return
	}
	role, err := snowflake.Parse(roleID)
	if err != nil {
		return
	}

	if err := client.Rest().AddMemberRole(guildID, userID, role); err != nil {
		slog.Error("Failed to grant auto-role",
			slog.String("type", "error"),
			slog.String("guild_id", notification.GuildID),
			slog.String("user_id", notification.DiscordID),
			slog.String("role_id", roleID),
			slog.Any("error", err))
	}
}
