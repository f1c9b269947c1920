package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/handler"

	"github.com/luminabot/lumina/lumina"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/services"
	"github.com/luminabot/lumina/lumina/utils"
)

func RankHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		metric := services.MetricXP
		if m, ok := data.OptString("metric"); ok {
			metric = m
		}
		target := e.User()
		if user, ok := data.OptUser("member"); ok {
			target = user
		}

		rank, err := b.StatsService.Rank(ctx, e.GuildID().String(), target.ID.String(), metric)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("**%s** isn't on the leaderboard yet.", target.Username))
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to look up the rank. Please try again later.")
		}

		return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("🎖️ **%s** is ranked **#%d** by %s.", target.Username, rank, metricLabels[metric]))
	}
}
