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
	"github.com/luminabot/lumina/lumina/achievements"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/utils"
)

func BadgesHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		target := e.User()
		if user, ok := e.SlashCommandInteractionData().OptUser("member"); ok {
			target = user
		}

		member, err := b.MemberRepository.Get(ctx, e.GuildID().String(), target.ID.String())
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("**%s** hasn't earned any badges yet.", target.Username))
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch badges. Please try again later.")
		}

		if len(member.Badges) == 0 {
			return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("**%s** hasn't earned any badges yet.", target.Username))
		}

		var description strings.Builder
		for _, badgeID := range member.Badges {
			badge, ok := achievements.Get(badgeID)
			if !ok {
				continue
			}
			description.WriteString(fmt.Sprintf("%s **%s** — %s\n", badge.Icon, badge.Name, badge.Description))
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("🏅 %s's Badges (%d/%d)", member.Username, len(member.Badges), achievements.Total()),
				Description: description.String(),
				Color:       utils.InfoColor,
			}},
		})
	}
}
