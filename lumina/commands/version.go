package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/luminabot/lumina/lumina"
)

func VersionHandler(b *lumina.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}
		content := fmt.Sprintf("Version: %s\nCommit: %s", b.Version, b.Commit)
		_, err := e.UpdateInteractionResponse(discord.MessageUpdate{Content: &content})
		return err
	}
}
