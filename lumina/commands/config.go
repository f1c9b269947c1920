package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/handler"

	"github.com/luminabot/lumina/lumina"
	"github.com/luminabot/lumina/lumina/database/models"
	"github.com/luminabot/lumina/lumina/utils"
)

func ConfigHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		guildID := e.GuildID().String()

		switch *data.SubCommandName {
		case "set-welcome-channel":
			channel := data.Channel("channel")
			channelID := channel.ID.String()
			if _, err := b.ConfigRepository.Upsert(ctx, guildID, models.GuildConfigPatch{WelcomeChannelID: &channelID}); err != nil {
				return utils.EH.CreateErrorEmbed(e, "Failed to update the config. Please try again later.")
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Welcome messages will be sent to <#%s>.", channelID))

		case "set-log-channel":
			channel := data.Channel("channel")
			channelID := channel.ID.String()
			if _, err := b.ConfigRepository.Upsert(ctx, guildID, models.GuildConfigPatch{LogChannelID: &channelID}); err != nil {
				return utils.EH.CreateErrorEmbed(e, "Failed to update the config. Please try again later.")
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Notifications will be sent to <#%s>.", channelID))

		case "toggle-level-messages":
			enabled := data.Bool("enabled")
			if _, err := b.ConfigRepository.Upsert(ctx, guildID, models.GuildConfigPatch{LevelUpMessages: &enabled}); err != nil {
				return utils.EH.CreateErrorEmbed(e, "Failed to update the config. Please try again later.")
			}
			if enabled {
				return utils.EH.CreateSuccessEmbed(e, "Level-up announcements are now **enabled**.")
			}
			return utils.EH.CreateSuccessEmbed(e, "Level-up announcements are now **disabled**.")

		case "set-auto-role":
			level := data.Int("level")
			if level < 1 {
				return utils.EH.CreateErrorEmbed(e, "Level must be at least 1.")
			}
			roleID := ""
			if role, ok := data.OptRole("role"); ok {
				roleID = role.ID.String()
			}
			patch := models.GuildConfigPatch{AutoRoles: []models.AutoRole{{Level: level, RoleID: roleID}}}
			if _, err := b.ConfigRepository.Upsert(ctx, guildID, patch); err != nil {
				return utils.EH.CreateErrorEmbed(e, "Failed to update the config. Please try again later.")
			}
			if roleID == "" {
				return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Removed the auto-role for level %d.", level))
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Members reaching level %d will receive <@&%s>.", level, roleID))
		}

		return utils.EH.CreateErrorEmbed(e, "Unknown config subcommand.")
	}
}
