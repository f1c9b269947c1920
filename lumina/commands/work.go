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

func WorkHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := b.ClaimService.ClaimWork(ctx, e.GuildID().String(), e.User().ID.String(), time.Now())
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.EH.CreateInfoEmbed(e, "You haven't been active yet. Send a message to get started!")
			}
			if errors.Is(err, repositories.ErrInvalidArgument) {
				return utils.EH.CreateErrorEmbed(e, "The economy is disabled in this guild.")
			}
			slog.Error("Failed to claim work reward",
				slog.String("type", "db"),
				slog.String("discord_id", e.User().ID.String()),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "Failed to work. Please try again later.")
		}

		if res.OnCooldown {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("You need to rest for **%s** before working again!", utils.FormatDuration(res.RetryIn)))
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "💼 Work Complete!",
				Description: fmt.Sprintf("You earned **%d** coins. Your balance is now **%d**.", res.Reward, res.Member.Coins),
				Color:       utils.SuccessColor,
			}},
		})
	}
}
