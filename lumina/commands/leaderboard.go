package commands

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/luminabot/lumina/lumina"
	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/services"
	"github.com/luminabot/lumina/lumina/utils"
)

var metricLabels = map[string]string{
	services.MetricMessages: "Messages",
	services.MetricVoice:    "Voice Minutes",
	services.MetricXP:       "XP",
	services.MetricCoins:    "Coins",
	services.MetricLevel:    "Level",
}

func LeaderboardHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		metric := services.MetricXP
		if m, ok := e.SlashCommandInteractionData().OptString("metric"); ok {
			metric = m
		}

		members, err := b.StatsService.TopMembers(ctx, e.GuildID().String(), metric, 100)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to load the leaderboard. Please try again later.")
		}
		if len(members) == 0 {
			return utils.EH.CreateInfoEmbed(e, "Nobody has been active yet. Be the first!")
		}

		totalPages := int(math.Ceil(float64(len(members)) / float64(utils.MembersPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * utils.MembersPerPage
				endIdx := min(startIdx+utils.MembersPerPage, len(members))

				var description strings.Builder
				description.WriteString("```ansi\n")
				for i, member := range members[startIdx:endIdx] {
					rank := startIdx + i + 1
					medal := "  "
					switch rank {
					case 1:
						medal = "🥇"
					case 2:
						medal = "🥈"
					case 3:
						medal = "🥉"
					}
					description.WriteString(fmt.Sprintf("%s \x1b[33m#%-3d\x1b[0m \x1b[32m%s\x1b[0m — %s\n",
						medal,
						rank,
						member.Username,
						formatMetric(b, member, metric),
					))
				}
				description.WriteString("```")

				embed.
					SetTitle(fmt.Sprintf("🏆 Leaderboard — %s", metricLabels[metric])).
					SetDescription(description.String()).
					SetColor(0x2B2D31).
					SetFooter(fmt.Sprintf("Page %d/%d • %d members", page+1, totalPages, len(members)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func formatMetric(b *lumina.Bot, member *models.Member, metric string) string {
	switch metric {
	case services.MetricMessages:
		return fmt.Sprintf("%d messages", member.MessageCount)
	case services.MetricVoice:
		return utils.FormatVoiceTime(member.VoiceMinutes)
	case services.MetricCoins:
		return fmt.Sprintf("%d coins", member.Coins)
	case services.MetricLevel:
		return fmt.Sprintf("level %d", b.Calculator.LevelForXP(member.XP))
	default:
		return fmt.Sprintf("%d XP", member.XP)
	}
}
