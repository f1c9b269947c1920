package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"

	"github.com/luminabot/lumina/lumina/services"
)

// VoiceHandler turns voice state updates into session transitions. Mute and
// deafen toggles arrive as updates with an unchanged channel and are
// dropped inside the service.
func VoiceHandler(voice *services.VoiceService) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildVoiceStateUpdate) {
		if e.Member.User.Bot {
			return
		}

		prevChannel := ""
		if e.OldVoiceState.ChannelID != nil {
			prevChannel = e.OldVoiceState.ChannelID.String()
		}
		newChannel := ""
		if e.VoiceState.ChannelID != nil {
			newChannel = e.VoiceState.ChannelID.String()
		}

		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()

		err := voice.HandleVoiceTransition(ctx,
			e.VoiceState.GuildID.String(),
			e.VoiceState.UserID.String(),
			prevChannel,
			newChannel,
			time.Now(),
		)
		if err != nil {
			slog.Error("Failed to handle voice transition",
				slog.String("type", "error"),
				slog.String("guild_id", e.VoiceState.GuildID.String()),
				slog.String("user_id", e.VoiceState.UserID.String()),
				slog.Any("error", err))
		}
	})
}
