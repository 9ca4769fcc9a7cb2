package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/garrettladley/hrcounter/internal/assets"
	"github.com/garrettladley/hrcounter/internal/config"
	"github.com/garrettladley/hrcounter/internal/uiloop"
	"github.com/garrettladley/hrcounter/internal/xslog"
)

func iconsCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "List cached status icons",
		Long:  "Loads the icon directory and prints each icon with its dimensions.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			logger := xslog.NewLogger(os.Stderr, cfg.LogLevel, cfg.Env)

			dir, err := iconsDir(cfg)
			if err != nil {
				return err
			}

			loop := uiloop.New()
			go func() { _ = loop.Run(ctx) }()
			<-loop.Started()

			cache := assets.New(dir, loop, assets.WithLogger(logger))
			if err := cache.Initialize(ctx); err != nil {
				return err
			}
			defer func() { _ = cache.Close(context.WithoutCancel(ctx)) }()
			<-cache.Ready()

			var entries []assets.Entry
			if doErr := loop.Do(ctx, func(ctx context.Context) {
				entries, err = cache.ListWithHandles(ctx, refresh)
			}); doErr != nil {
				return doErr
			}
			if err != nil {
				return fmt.Errorf("failed to list icons: %w", err)
			}

			fmt.Printf("%s (generation %d)\n", cache.Dir(), cache.Generation())
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				b := e.Icon.Bounds()
				fmt.Fprintf(w, "  %s\t%dx%d\n", e.Name, b.Dx(), b.Dy())
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "rescan the directory before listing")
	return cmd
}
