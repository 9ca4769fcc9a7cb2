//go:build !release

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/garrettladley/hrcounter/internal/config"
	"github.com/garrettladley/hrcounter/internal/source"
)

func addDevCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(sourcesCmd())
}

func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List data sources and their configured credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tTRANSPORT\tCREDENTIAL\tSELECTED")
			for _, kind := range source.Kinds() {
				transport := "poll"
				if kind.Streaming() {
					transport = "websocket"
				}
				cred := cfg.Credentials.For(kind)
				shown := cred.String()
				if cred.Empty() {
					shown = "(not set)"
				}
				selected := ""
				if kind == cfg.DataSource {
					selected = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kind, transport, shown, selected)
			}
			return w.Flush()
		},
	}
}
