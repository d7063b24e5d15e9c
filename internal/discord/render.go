package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"factbot/internal/stats"
)

const (
	statusTitle   = "Factorio Server Status"
	historyWindow = 50

	colorOrange = 0xE67E22
	colorGold   = 0xF1C40F
)

// Render upserts the single live status message: the most recent window
// of channel history is scanned for an existing status message from this
// bot, which is edited in place; otherwise a new one is sent. Searching
// instead of remembering the message id keeps the upsert correct across
// process restarts.
func (b *Bot) Render(ctx context.Context, snap *stats.Snapshot, label string) error {
	embed := statusEmbed(snap, label)
	components := controlRows()

	msgs, err := b.api.ChannelMessages(b.channelID, historyWindow, "", "", "")
	if err != nil {
		return fmt.Errorf("failed to read channel history: %w", err)
	}

	for _, m := range msgs {
		if m.Author == nil || m.Author.ID != b.botUserID {
			continue
		}
		if len(m.Embeds) == 0 || m.Embeds[0].Title != statusTitle {
			continue
		}

		edit := discordgo.NewMessageEdit(b.channelID, m.ID)
		edit.Embeds = &[]*discordgo.MessageEmbed{embed}
		edit.Components = &components
		if _, err := b.api.ChannelMessageEditComplex(edit); err != nil {
			return fmt.Errorf("failed to edit status message: %w", err)
		}
		return nil
	}

	_, err = b.api.ChannelMessageSendComplex(b.channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return fmt.Errorf("failed to send status message: %w", err)
	}
	return nil
}

func statusEmbed(snap *stats.Snapshot, label string) *discordgo.MessageEmbed {
	glyph := "🔴"
	if snap.Running() {
		glyph = "🟢"
	}

	// Zero-width fields keep the inline metrics aligned in two columns.
	blank := &discordgo.MessageEmbedField{Name: "​", Value: "​", Inline: true}

	return &discordgo.MessageEmbed{
		Title: statusTitle,
		Color: colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Server Status", Value: fmt.Sprintf("%s %s", glyph, snap.Status)},
			{Name: "CPU Usage", Value: snap.CPUString(), Inline: true},
			{Name: "RAM Usage", Value: snap.RAMString(), Inline: true},
			blank,
			{Name: "Uptime", Value: snap.UptimeString(), Inline: true},
			{Name: "Players", Value: snap.PlayersString(), Inline: true},
			blank,
			{Name: "Bot Status", Value: label},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Last updated: %s UTC", time.Now().UTC().Format("2006-01-02 15:04:05")),
		},
	}
}
