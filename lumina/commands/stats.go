package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/luminabot/lumina/lumina"
	"github.com/luminabot/lumina/lumina/utils"
)

func StatsHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		stats, err := b.StatsService.Stats(ctx, e.GuildID().String())
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to load guild statistics. Please try again later.")
		}

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "📈 Guild Statistics",
				Color: utils.InfoColor,
				Fields: []discord.EmbedField{
					{Name: "Active Members", Value: fmt.Sprintf("%d", stats.MemberCount), Inline: ptr(true)},
					{Name: "Total Messages", Value: fmt.Sprintf("%d", stats.TotalMessages), Inline: ptr(true)},
					{Name: "Avg Messages", Value: fmt.Sprintf("%.1f", stats.AverageMessages), Inline: ptr(true)},
					{Name: "Voice Time", Value: utils.FormatVoiceTime(stats.TotalVoiceMin), Inline: ptr(true)},
					{Name: "Total Coins", Value: fmt.Sprintf("%d", stats.TotalCoins), Inline: ptr(true)},
					{Name: "Highest Level", Value: fmt.Sprintf("%d", stats.MaxLevel), Inline: ptr(true)},
				},
				Timestamp: &now,
			}},
		})
	}
}
