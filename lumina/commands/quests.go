package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/luminabot/lumina/lumina"
	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/utils"
)

func QuestsHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		filter := models.QuestFilterAll
		if f, ok := e.SlashCommandInteractionData().OptString("filter"); ok {
			filter = f
		}

		quests, err := b.QuestService.ListQuests(ctx, e.GuildID().String(), e.User().ID.String(), filter, time.Now())
		if err != nil {
			if errors.Is(err, repositories.ErrInvalidArgument) {
				return utils.EH.CreateErrorEmbed(e, "Unknown quest filter.")
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to load your quests. Please try again later.")
		}

		if len(quests) == 0 {
			return utils.EH.CreateInfoEmbed(e, "No quests match that filter. Fresh quests arrive at midnight UTC!")
		}

		var description strings.Builder
		description.WriteString("```ansi\n")
		for _, q := range quests {
			def, ok := models.QuestDefinitionByID(q.QuestID)
			if !ok {
				continue
			}
			check := " "
			if q.Completed {
				check = "✓"
			}
			description.WriteString(fmt.Sprintf("[%s] \x1b[36m%s\x1b[0m\n    %s\n    %s  \x1b[33m+%d coins, +%d XP\x1b[0m\n",
				check,
				def.Name,
				def.Description,
				utils.ProgressBar(q.Progress, def.Target),
				def.RewardCoins,
				def.RewardXP,
			))
		}
		description.WriteString("```")

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "📜 Daily Quests",
				Description: description.String(),
				Color:       utils.InfoColor,
				Footer: &discord.EmbedFooter{
					Text: "Quests reset at midnight UTC",
				},
			}},
		})
	}
}
