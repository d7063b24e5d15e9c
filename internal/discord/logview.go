package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"factbot/internal/runtime"
)

const logTailLines = 20

// Embed descriptions cap out at 4096 characters; leave room for the
// code fence.
const maxLogChars = 3900

// logView is one ephemeral log message. Dismissal is a race between the
// Close button and the auto-close timer; whichever fires first wins.
type logView struct {
	timer *time.Timer
	once  sync.Once
}

func (b *Bot) showLogs(ctx context.Context) {
	logs, err := b.engine.TailLogs(ctx, logTailLines)
	if err != nil {
		if errors.Is(err, runtime.ErrNotFound) {
			b.log.Error().Msg("Factorio container not found")
			b.engine.Set(ctx, "Error: Factorio container not found", true)
			return
		}
		b.log.Error().Err(err).Msg("Error fetching Factorio logs")
		b.engine.Set(ctx, "Error: Failed to fetch logs", true)
		return
	}

	if len(logs) > maxLogChars {
		logs = logs[len(logs)-maxLogChars:]
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Factorio Server Logs",
		Description: fmt.Sprintf("```\n%s\n```", logs),
		Color:       colorGold,
	}

	msg, err := b.api.ChannelMessageSendComplex(b.channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: closeRow(),
	})
	if err != nil {
		b.log.Error().Err(err).Msg("Failed to send log message")
		b.engine.Set(ctx, "Error: Failed to fetch logs", true)
		return
	}

	view := &logView{}
	view.timer = time.AfterFunc(b.logCloseTimeout, func() {
		b.closeLogView(msg.ID, false)
	})

	b.viewMu.Lock()
	b.logViews[msg.ID] = view
	b.viewMu.Unlock()

	b.log.Info().Msg("Logs have been sent to Discord")
	b.engine.Set(ctx, "Logs displayed", true)
}

// closeLogView dismisses a log message, either manually via the Close
// button or automatically when the timer fires. Only the first path runs.
func (b *Bot) closeLogView(messageID string, manual bool) {
	b.viewMu.Lock()
	view := b.logViews[messageID]
	delete(b.logViews, messageID)
	b.viewMu.Unlock()

	if view == nil {
		return
	}

	view.once.Do(func() {
		view.timer.Stop()

		if err := b.api.ChannelMessageDelete(b.channelID, messageID); err != nil {
			b.log.Error().Err(err).Str("message", messageID).Msg("Failed to delete log message")
		}

		if manual {
			b.log.Info().Msg("Log message manually closed")
			b.engine.Set(b.runCtx(), "Logs manually closed", true)
		} else {
			b.log.Info().Msg("Log message automatically closed after 45 seconds")
			b.engine.Set(b.runCtx(), "Logs automatically closed after 45 seconds", true)
		}
	})
}
