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

func ProfileHandler(b *lumina.Bot) handler.CommandHandler {
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
				return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("**%s** hasn't been active yet. Activity starts counting with their first message.", target.Username))
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch the profile. Please try again later.")
		}

		level := b.Calculator.LevelForXP(member.XP)
		nextLevelXP := b.Calculator.XPForLevel(level + 1)

		description := fmt.Sprintf("```ansi\n"+
			"\x1b[1;36mLevel:\x1b[0m %d\n"+
			"\x1b[0;37m%s\x1b[0m\n"+
			"\n"+
			"\x1b[1;35mXP:\x1b[0m %d / %d\n"+
			"\x1b[1;33mCoins:\x1b[0m %d\n"+
			"\x1b[1;32mStreak:\x1b[0m %d days\n"+
			"```",
			level,
			utils.ProgressBar(member.XP, nextLevelXP),
			member.XP,
			nextLevelXP,
			member.Coins,
			member.Streak,
		)

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("📊 %s's Profile", member.Username),
				Description: description,
				Color:       utils.InfoColor,
				Fields: []discord.EmbedField{
					{Name: "Messages", Value: fmt.Sprintf("%d", member.MessageCount), Inline: ptr(true)},
					{Name: "Voice Time", Value: utils.FormatVoiceTime(member.VoiceMinutes), Inline: ptr(true)},
					{Name: "Badges", Value: fmt.Sprintf("%d", len(member.Badges)), Inline: ptr(true)},
				},
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Member since %s", member.Joined.Format("Jan 2, 2006")),
				},
				Timestamp: &now,
			}},
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
