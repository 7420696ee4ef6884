package main

import (
	"github.com/spf13/cobra"

	"github.com/Belphemur/SuperCaptions/internal/client"
	"github.com/Belphemur/SuperCaptions/internal/config"
)

// clientFactory builds the caption client; tests replace it
var clientFactory = func() (client.Client, error) {
	return client.NewClient(config.GetConfig())
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "captionctl",
		Short:         "Search, fetch and normalize external subtitles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newSearchCommand())
	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newNormalizeCommand())

	return rootCmd
}
