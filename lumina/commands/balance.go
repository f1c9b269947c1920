package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/luminabot/lumina/lumina"
	"github.com/luminabot/lumina/lumina/database/repositories"
	"github.com/luminabot/lumina/lumina/utils"
)

func BalanceHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		member, err := b.MemberRepository.Get(ctx, e.GuildID().String(), e.User().ID.String())
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.EH.CreateInfoEmbed(e, "You haven't been active yet. Send a message to get started!")
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your balance. Please try again later.")
		}

		level := b.Calculator.LevelForXP(member.XP)
		nextLevelXP := b.Calculator.XPForLevel(level + 1)

		description := fmt.Sprintf("```ansi\n"+
			"\x1b[1;33mCoins:\x1b[0m %d\n"+
			"\n"+
			"\x1b[1;36mLevel %d:\x1b[0m %d / %d XP\n"+
			"\x1b[0;37m%s\x1b[0m\n"+
			"```",
			member.Coins,
			level,
			member.XP,
			nextLevelXP,
			utils.ProgressBar(member.XP, nextLevelXP),
		)

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "💰 Balance",
				Description: description,
				Color:       utils.SuccessColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Requested by %s", e.User().Username),
				},
				Timestamp: &now,
			}},
		})
	}
}
