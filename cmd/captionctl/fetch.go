package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Belphemur/SuperCaptions/internal/models"
)

func newFetchCommand() *cobra.Command {
	var (
		episode int
		format  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download a caption and convert it to SRT or WebVTT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFactory()
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}
			defer c.Close()

			var result *models.DownloadResult
			switch format {
			case "raw":
				result, err = c.DownloadCaption(cmd.Context(), args[0], episode)
			case "srt", "vtt":
				result, err = c.ConvertCaption(cmd.Context(), args[0], episode, models.ParseFormat(format))
			default:
				return errors.New("--format must be one of srt, vtt, raw")
			}
			if err != nil {
				return fmt.Errorf("fetch %s: %w", args[0], err)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(result.Content)
				return err
			}
			if output == "." {
				output = result.Filename
			}
			if err := os.WriteFile(output, result.Content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", output, len(result.Content))
			return nil
		},
	}

	cmd.Flags().IntVar(&episode, "episode", 0, "Episode to pick when the caption is an archive")
	cmd.Flags().StringVar(&format, "format", "srt", "Output format: srt, vtt or raw")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout; '.' keeps the provider filename")

	return cmd
}
