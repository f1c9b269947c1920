package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"

	"github.com/luminabot/lumina/lumina/services"
)

const eventTimeout = 10 * time.Second

// MessageHandler feeds guild messages into the activity service. Bot and
// webhook messages are ignored, as are DMs.
func MessageHandler(activity *services.ActivityService) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.MessageCreate) {
		if e.GuildID == nil || e.Message.Author.Bot || e.Message.WebhookID != nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()

		_, err := activity.HandleMessage(ctx,
			e.GuildID.String(),
			e.Message.Author.ID.String(),
			e.Message.Author.Username,
			e.Message.Author.EffectiveAvatarURL(),
			e.Message.CreatedAt,
		)
		if err != nil {
			slog.Error("Failed to handle message activity",
				slog.String("type", "error"),
				slog.String("guild_id", e.GuildID.String()),
				slog.String("user_id", e.Message.Author.ID.String()),
				slog.Any("error", err))
		}
	})
}
