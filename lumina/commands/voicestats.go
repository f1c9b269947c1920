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

func VoiceStatsHandler(b *lumina.Bot) handler.CommandHandler {
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
				return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("**%s** has no voice activity yet.", target.Username))
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch voice stats. Please try again later.")
		}

		status := "Not in voice"
		if b.VoiceService.InSession(e.GuildID().String(), target.ID.String()) {
			status = "🔊 In voice right now"
		}

		avgSession := int64(0)
		if member.VoiceSessions > 0 {
			avgSession = member.VoiceMinutes / member.VoiceSessions
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("🎙️ %s's Voice Activity", member.Username),
				Description: status,
				Color:       utils.InfoColor,
				Fields: []discord.EmbedField{
					{Name: "Total Time", Value: utils.FormatVoiceTime(member.VoiceMinutes), Inline: ptr(true)},
					{Name: "Sessions", Value: fmt.Sprintf("%d", member.VoiceSessions), Inline: ptr(true)},
					{Name: "Avg Session", Value: utils.FormatVoiceTime(avgSession), Inline: ptr(true)},
					{Name: "Messages in Voice", Value: fmt.Sprintf("%d", member.MessagesInVoice), Inline: ptr(true)},
				},
			}},
		})
	}
}
