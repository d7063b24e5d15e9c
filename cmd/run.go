package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"factbot/internal/config"
	"factbot/internal/discord"
	"factbot/internal/logging"
	"factbot/internal/rcon"
	"factbot/internal/runtime"
	"factbot/internal/stats"
	"factbot/internal/status"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Factorio server supervisor",
	Long:  `Connect to Discord and supervise the Factorio server container.`,
	Run:   runSupervisor,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runSupervisor(cmd *cobra.Command, args []string) {
	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Fatal().Err(err).Msg("Invalid configuration")
	}

	log, err := logging.Setup(cfg.Logging)
	if err != nil {
		bootstrap.Fatal().Err(err).Msg("Failed to set up logging")
	}

	rt, err := runtime.NewDockerRuntime(log)
	if err != nil {
		log.Fatal().Err(err).Msg("Docker client initialization failed, check the Docker installation")
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.Ping(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("Docker daemon is not reachable")
	}

	console := rcon.NewClient(cfg.Factorio.RCONAddress(), cfg.Factorio.RCONPassword, log)
	collector := stats.NewCollector(rt, console, cfg.Factorio.ContainerName, log)

	engine := status.NewEngine(status.Config{
		Container:      cfg.Factorio.ContainerName,
		IdleTimeout:    cfg.Discord.IdleTimeout,
		UpdateInterval: cfg.Discord.UpdateInterval,
	}, collector, rt, log)

	bot, err := discord.New(cfg, engine, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Discord session")
	}
	engine.Bind(bot, bot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("container", cfg.Factorio.ContainerName).
		Dur("update_interval", cfg.Discord.UpdateInterval).
		Msg("Starting Factorio supervisor")

	if err := bot.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Supervisor stopped unexpectedly")
	}

	log.Info().Msg("Shutdown complete")
}
