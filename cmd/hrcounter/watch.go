package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/garrettladley/hrcounter/internal/config"
	"github.com/garrettladley/hrcounter/internal/tui"
	"github.com/garrettladley/hrcounter/internal/xslog"
)

// lineSink prints every tick on its own line.
type lineSink struct {
	w      io.Writer
	render bool
}

func (s lineSink) SetText(text string) {
	if s.render {
		text = tui.RenderMarkup(text)
	}
	_, _ = fmt.Fprintln(s.w, text)
}

func watchCmd() *cobra.Command {
	var render bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the heart rate readout once per tick",
		Long:  "Runs ingestion headless and writes each tick to stdout. Logs go to stderr.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			logger := xslog.NewLogger(os.Stderr, cfg.LogLevel, cfg.Env)

			a, err := newApp(ctx, cfg, logger, hooks{sink: lineSink{w: os.Stdout, render: render}})
			if err != nil {
				return err
			}
			a.start(ctx)
			defer a.close(context.WithoutCancel(ctx))

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "render color markup as terminal colors")
	return cmd
}
