// Package bot parses bot command flags and starts the arena runtime.
package bot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/chalwk/versus/internal/log"
	entrypoint "github.com/chalwk/versus/internal/platform/cmd"
	"github.com/chalwk/versus/internal/platform/timeouts"
	"github.com/chalwk/versus/internal/services/arena/api/discord"
	"github.com/chalwk/versus/internal/services/arena/app"
	"github.com/chalwk/versus/internal/services/arena/domain"
	"github.com/chalwk/versus/internal/services/arena/storage/sqlite"
)

// Config holds bot command configuration.
type Config struct {
	Token           string        `env:"VERSUS_BOT_TOKEN"`
	DBPath          string        `env:"VERSUS_BOT_DB" envDefault:"data/versus.db"`
	GuildID         string        `env:"VERSUS_GUILD_ID"`
	SessionLimit    time.Duration `env:"VERSUS_SESSION_LIMIT" envDefault:"300s"`
	ExpiryTick      time.Duration `env:"VERSUS_EXPIRY_TICK" envDefault:"1s"`
	CommandCooldown time.Duration `env:"VERSUS_COMMAND_COOLDOWN" envDefault:"5s"`
	LogLevel        string        `env:"VERSUS_LOG_LEVEL"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Token, "token", cfg.Token, "The Discord bot token")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the guild settings database")
	fs.StringVar(&cfg.GuildID, "guild", cfg.GuildID, "Guild to register commands in (empty for global)")
	fs.DurationVar(&cfg.SessionLimit, "session-limit", cfg.SessionLimit, "Time limit per game session")
	fs.DurationVar(&cfg.ExpiryTick, "expiry-tick", cfg.ExpiryTick, "Interval between expiry sweeps")
	fs.DurationVar(&cfg.CommandCooldown, "cooldown", cfg.CommandCooldown, "Per-user cooldown between uses of a command")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the bot: opens the settings store, connects to the Discord
// gateway, registers commands, and sweeps for expired sessions until ctx
// is canceled.
func Run(ctx context.Context, cfg Config) error {
	log.Configure(log.Config{Level: cfg.LogLevel, Service: "versus"})
	logger := log.WithComponent("bot")

	if strings.TrimSpace(cfg.Token) == "" {
		return errors.New("bot token is required")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	seed, err := domain.NewSeed()
	if err != nil {
		return fmt.Errorf("generate seed: %w", err)
	}
	registry := app.NewRegistry(
		app.WithCoin(domain.NewCoin(seed)),
		app.WithTimeLimit(cfg.SessionLimit),
	)

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	notifier := discord.NewEmbedNotifier(session)
	handler := discord.NewHandler(
		registry,
		notifier,
		discord.NewGate(store),
		discord.NewCooldown(cfg.CommandCooldown),
		store,
	)
	session.AddHandler(handler.HandleInteraction)

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	defer func() {
		_ = session.Close()
	}()

	if _, err := session.ApplicationCommandBulkOverwrite(session.State.User.ID, cfg.GuildID, discord.Commands()); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	scheduler := app.NewScheduler(registry, notifier, app.WithSchedulerInterval(cfg.ExpiryTick))

	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.Run(schedulerCtx)
	}()

	logger.Info().Msg("bot is running")
	<-ctx.Done()

	stopScheduler()
	select {
	case <-done:
	case <-time.After(timeouts.Shutdown):
		logger.Warn().Msg("scheduler did not stop in time")
	}
	return nil
}
