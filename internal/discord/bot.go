// Package discord is the chat transport adapter: it renders the live
// status message, routes button and slash-command activations into the
// status engine, and supervises the gateway connection.
package discord

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"factbot/internal/config"
	"factbot/internal/status"
)

// channelAPI is the slice of the discordgo session the bot needs for
// messaging and presence. *discordgo.Session satisfies it; tests fake it.
type channelAPI interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	UpdateGameStatus(idle int, name string) error
}

// Bot wires the Discord session to the status engine.
type Bot struct {
	session   *discordgo.Session
	api       channelAPI
	engine    *status.Engine
	channelID string
	log       zerolog.Logger

	ctx       context.Context
	botUserID string
	readyOnce sync.Once

	viewMu          sync.Mutex
	logViews        map[string]*logView
	logCloseTimeout time.Duration
}

func New(cfg *config.Config, engine *status.Engine, log zerolog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	// The connection supervisor owns the reconnect policy.
	session.ShouldReconnectOnError = false

	b := &Bot{
		session:         session,
		api:             session,
		engine:          engine,
		channelID:       cfg.Discord.StatusChannelID,
		log:             log,
		logViews:        make(map[string]*logView),
		logCloseTimeout: 45 * time.Second,
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) {
		log.Info().Msg("Resumed Discord session")
	})

	return b, nil
}

// Run opens the gateway under the connection supervisor and blocks until
// the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	sup := NewSupervisor(b.session, b.log)
	b.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Connect) {
		b.log.Info().Msg("Connected to Discord")
		sup.OnConnect()
	})
	b.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		b.log.Warn().Msg("Disconnected from Discord")
		sup.OnDisconnect()
	})

	return sup.Run(ctx)
}

// SetPresence mirrors the activity label to the bot's presence.
func (b *Bot) SetPresence(label string) error {
	return b.api.UpdateGameStatus(0, label)
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.botUserID = r.User.ID
	b.log.Info().Str("user", r.User.Username).Msg("Discord session ready")

	if err := b.api.UpdateGameStatus(0, "Factorio Server Monitor"); err != nil {
		b.log.Error().Err(err).Msg("Failed to set initial presence")
	}

	b.readyOnce.Do(func() {
		b.purgeChannel()
		b.registerCommands(r.User.ID)
		b.engine.Set(b.runCtx(), status.IdleLabel, false)
		go b.engine.RunPoller(b.runCtx())
	})
}

// purgeChannel clears the status channel so the first render starts from
// a clean slate.
func (b *Bot) purgeChannel() {
	msgs, err := b.api.ChannelMessages(b.channelID, 100, "", "", "")
	if err != nil {
		b.log.Error().Err(err).Str("channel", b.channelID).Msg("Failed to list channel messages for purge")
		return
	}
	if len(msgs) == 0 {
		return
	}

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}

	if err := b.api.ChannelMessagesBulkDelete(b.channelID, ids); err != nil {
		b.log.Error().Err(err).Str("channel", b.channelID).Msg("Failed to purge status channel")
		return
	}
	b.log.Info().Int("count", len(ids)).Str("channel", b.channelID).Msg("Cleared status channel")
}
