package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/hrcounter/internal/config"
	"github.com/garrettladley/hrcounter/internal/hr"
	"github.com/garrettladley/hrcounter/internal/mirror"
	"github.com/garrettladley/hrcounter/internal/redis"
)

func peekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "peek",
		Short: "Print the heart rate mirrored to Redis",
		Long:  "Reads the sample another hrcounter process mirrored to MIRROR_REDIS_URL.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			if !cfg.Mirror.Enabled() {
				return errors.New("MIRROR_REDIS_URL is not set")
			}

			client, err := redis.New(ctx, redis.Config{URL: cfg.Mirror.RedisURL})
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			return printMirrored(ctx, cmd, mirror.New(client, cfg.Mirror.Key, cfg.Mirror.TTL))
		},
	}
}

func printMirrored(ctx context.Context, cmd *cobra.Command, m *mirror.Mirror) error {
	rec, ok, err := m.Latest(ctx)
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println("no heart rate mirrored")
		return nil
	}

	sample := hr.Sample{BPM: rec.BPM, ReceivedAt: rec.ReceivedAt}
	cmd.Printf("HR %d from %s, %s ago\n", sample.BPM, rec.Source, sample.Age().Truncate(time.Second))
	return nil
}
