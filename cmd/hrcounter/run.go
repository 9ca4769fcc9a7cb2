package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/garrettladley/hrcounter/internal/config"
	"github.com/garrettladley/hrcounter/internal/display"
	"github.com/garrettladley/hrcounter/internal/paths"
	"github.com/garrettladley/hrcounter/internal/tui"
	"github.com/garrettladley/hrcounter/internal/xslog"
)

const logFileName = "hrcounter.log"

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Launch the heart rate TUI",
		Long:  "Opens the full-screen heart rate readout. Logs go to ~/.config/hrcounter/hrcounter.log.",
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	// the terminal belongs to the TUI, so logs go to a file
	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var (
		text   = tui.NewTextFeed()
		pauses = tui.NewPauseFeed()
		states = tui.NewStateFeed()
	)
	a, err := newApp(ctx, cfg, logger, hooks{sink: text, pauser: pauses, listener: states.Listen})
	if err != nil {
		return err
	}
	a.start(ctx)
	defer a.close(context.WithoutCancel(ctx))

	deps := tui.Deps{
		Ctx:    ctx,
		Slot:   a.slot,
		Text:   text,
		Pauses: pauses,
		States: states,
		Loop:   a.loop,
		Icons:  a.icons,
		Source: cfg.DataSource.String(),
		Icon:   cfg.Icon,
		HRHigh: cfg.Display.HRHigh,
	}
	if palette, err := display.NewPalette(cfg.DisplayConfig()); err == nil {
		deps.Palette = &palette
	}
	model := tui.New(deps)

	p := tea.NewProgram(&model)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func fileLogger(cfg config.Config) (*slog.Logger, func(), error) {
	dir, err := paths.EnsureDir()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return xslog.NewLogger(f, cfg.LogLevel, cfg.Env), func() { _ = f.Close() }, nil
}
