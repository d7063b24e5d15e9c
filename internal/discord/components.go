package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"factbot/internal/status"
)

// Component custom ids routed back into the engine.
const (
	buttonStartID     = "factorio_start"
	buttonStopID      = "factorio_stop"
	buttonRestartID   = "factorio_restart"
	buttonLogsID      = "factorio_logs"
	buttonRefreshID   = "factorio_refresh"
	buttonCloseLogsID = "factorio_logs_close"
)

func controlRows() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Start", Style: discordgo.SuccessButton, CustomID: buttonStartID},
			discordgo.Button{Label: "Stop", Style: discordgo.DangerButton, CustomID: buttonStopID},
			discordgo.Button{Label: "Restart", Style: discordgo.PrimaryButton, CustomID: buttonRestartID},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Logs", Style: discordgo.SecondaryButton, CustomID: buttonLogsID},
			discordgo.Button{
				Label:    "Refresh",
				Style:    discordgo.SecondaryButton,
				CustomID: buttonRefreshID,
				Emoji:    &discordgo.ComponentEmoji{Name: "♻️"},
			},
		}},
	}
}

func closeRow() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Close", Style: discordgo.DangerButton, CustomID: buttonCloseLogsID},
		}},
	}
}

func (b *Bot) registerCommands(appID string) {
	commands := []*discordgo.ApplicationCommand{
		{Name: "status", Description: "Refresh the Factorio server status"},
		{Name: "start", Description: "Start the Factorio server"},
		{Name: "stop", Description: "Stop the Factorio server"},
		{Name: "restart", Description: "Restart the Factorio server"},
		{Name: "logs", Description: "Show the last 20 lines of server logs"},
	}

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			b.log.Error().Err(err).Str("command", cmd.Name).Msg("Failed to register slash command")
		}
	}
}

func (b *Bot) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		b.handleComponent(i)
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(i)
	}
}

func (b *Bot) handleComponent(i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		b.log.Error().Err(err).Str("custom_id", customID).Msg("Failed to acknowledge interaction")
	}

	switch customID {
	case buttonStartID:
		go b.performAction(status.ActionStart)
	case buttonStopID:
		go b.performAction(status.ActionStop)
	case buttonRestartID:
		go b.performAction(status.ActionRestart)
	case buttonLogsID:
		go b.showLogs(b.runCtx())
	case buttonRefreshID:
		go b.refreshStatus()
	case buttonCloseLogsID:
		if i.Message != nil {
			b.closeLogView(i.Message.ID, true)
		}
	}
}

func (b *Bot) handleCommand(i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name

	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Request received.",
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.log.Error().Err(err).Str("command", name).Msg("Failed to acknowledge slash command")
	}

	switch name {
	case "start":
		go b.performAction(status.ActionStart)
	case "stop":
		go b.performAction(status.ActionStop)
	case "restart":
		go b.performAction(status.ActionRestart)
	case "logs":
		go b.showLogs(b.runCtx())
	case "status":
		go b.refreshStatus()
	}
}

// performAction runs the orchestrator; failures are already reported
// through the activity label, so the error is only logged here.
func (b *Bot) performAction(action status.Action) {
	if err := b.engine.PerformAction(b.runCtx(), action); err != nil {
		b.log.Error().Err(err).Str("action", string(action)).Msg("Container action failed")
	}
}

func (b *Bot) refreshStatus() {
	b.engine.Set(b.runCtx(), "Status manually refreshed", true)
	b.log.Info().Msg("Status manually refreshed")
}

func (b *Bot) runCtx() context.Context {
	if b.ctx != nil {
		return b.ctx
	}
	return context.Background()
}
