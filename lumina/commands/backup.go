package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/luminabot/lumina/lumina"
	"github.com/luminabot/lumina/lumina/utils"
)

func BackupHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if b.BackupService == nil {
			return utils.EH.CreateErrorEmbed(e, "Backups are not configured.")
		}

		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		key, err := b.BackupService.ExportGuild(ctx, e.GuildID().String(), time.Now())
		if err != nil {
			slog.Error("Guild backup failed",
				slog.String("type", "error"),
				slog.String("guild_id", e.GuildID().String()),
				slog.Any("error", err),
			)
			_, uerr := e.UpdateInteractionResponse(discord.MessageUpdate{
				Embeds: &[]discord.Embed{{
					Description: "Backup failed. Check the logs for details.",
					Color:       utils.ErrorColor,
				}},
			})
			return uerr
		}

		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Title:       "💾 Backup Complete",
				Description: fmt.Sprintf("Exported to `%s`.", key),
				Color:       utils.SuccessColor,
			}},
		})
		return err
	}
}
