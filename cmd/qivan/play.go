package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seiyria/qivan/cli"
	"github.com/seiyria/qivan/config"
	"github.com/seiyria/qivan/engine"
	"github.com/seiyria/qivan/loader"
	"github.com/seiyria/qivan/tui"
)

var (
	configPath string
	contentDir string
	logLevel   string

	seed        int64
	rngPosition int64
	plain       bool
	trace       bool
	scriptFile  string
	threat      string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start an interactive combat session",
	Long:  `Load content and play encounters in the terminal UI, a plain line interface, or from a script.`,
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (overrides the config file)")
	playCmd.Flags().Int64Var(&rngPosition, "rng-position", 0, "dice already rolled from the seed, to resume a replay")
	playCmd.Flags().BoolVar(&plain, "plain", false, "use the plain line interface")
	playCmd.Flags().BoolVar(&trace, "trace", false, "print engine events after each command")
	playCmd.Flags().StringVar(&scriptFile, "script", "", "read commands from a file (implies --plain)")
	playCmd.Flags().StringVar(&threat, "threat", "", "start a fight against this threat immediately")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if contentDir != "" {
		cfg.ContentDir = contentDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

func newLogger(level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	table, err := loader.Load(cfg.ContentDir)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	player, err := cfg.NewPlayer(table)
	if err != nil {
		return err
	}
	items, err := cfg.Items(table)
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Config{
		Content:           table,
		Player:            player,
		Items:             items,
		Seed:              cfg.Seed,
		RNGPosition:       rngPosition,
		EscapeDelay:       cfg.EscapeDelay,
		BasicAttackEnergy: cfg.BasicAttackEnergy,
		Logger:            logger,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	logger.Info("session started", "content", cfg.ContentDir, "seed", cfg.Seed, "player", player.Name)

	// Script mode: read the file, force plain, echo commands and wait out
	// deferred ends so the transcript is complete.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Settle = true
		c.Trace = trace
		c.Threat = threat
		return c.Run(ctx)
	}

	// Use the plain CLI if --plain or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(eng)
		c.Trace = trace
		c.Threat = threat
		return c.Run(ctx)
	}

	return tui.Run(ctx, eng, threat)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
