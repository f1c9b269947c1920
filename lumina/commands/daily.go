package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/luminabot/lumina/lumina"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/utils"
)

func DailyHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := b.ClaimService.ClaimDaily(ctx, e.GuildID().String(), e.User().ID.String(), time.Now())
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.EH.CreateInfoEmbed(e, "You haven't been active yet. Send a message to get started!")
			}
			if errors.Is(err, repositories.ErrInvalidArgument) {
				return utils.EH.CreateErrorEmbed(e, "Daily rewards are disabled in this guild.")
			}
			slog.Error("Failed to claim daily reward",
				slog.String("type", "db"),
				slog.String("discord_id", e.User().ID.String()),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "Failed to claim your daily reward. Please try again later.")
		}

		if res.OnCooldown {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("You already claimed today. Come back in **%s**!", utils.FormatDuration(res.RetryIn)))
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🎁 Daily Reward Claimed!",
				Description: fmt.Sprintf("You received **%d** coins!", res.Reward),
				Color:       utils.SuccessColor,
				Fields: []discord.EmbedField{
					{Name: "Streak", Value: fmt.Sprintf("🔥 %d days", res.Streak), Inline: ptr(true)},
					{Name: "Balance", Value: fmt.Sprintf("%d coins", res.Member.Coins), Inline: ptr(true)},
				},
			}},
		})
	}
}
