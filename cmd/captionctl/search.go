package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Belphemur/SuperCaptions/internal/models"
)

func newSearchCommand() *cobra.Command {
	var (
		media      models.MediaIdentity
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search every enabled provider for captions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !media.HasIMDB() {
				return errors.New("--imdb is required")
			}

			c, err := clientFactory()
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}
			defer c.Close()

			found := c.SearchCaptions(cmd.Context(), media)
			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(found)
			}

			fmt.Fprintln(out, renderCaptions(found, isTerminal(out)))
			fmt.Fprintf(out, "%d captions from %d sources\n", len(found), len(c.Sources()))
			return nil
		},
	}

	cmd.Flags().StringVar(&media.IMDBID, "imdb", "", "IMDB id, with or without the tt prefix")
	cmd.Flags().StringVar(&media.TMDBID, "tmdb", "", "TMDB id")
	cmd.Flags().IntVar(&media.Season, "season", 0, "Season number for episodes")
	cmd.Flags().IntVar(&media.Episode, "episode", 0, "Episode number for episodes")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")

	return cmd
}

func renderCaptions(found []models.CaptionDescriptor, color bool) string {
	rows := make([][]string, 0, len(found))
	for i, c := range found {
		label := c.Display
		if c.Release != "" {
			label = c.Release
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Source,
			c.Language,
			c.Format.String(),
			yesNo(c.IsHearingImpaired),
			label,
			c.URL,
		})
	}
	return renderTable(
		[]string{"#", "Source", "Lang", "Format", "HI", "Release", "URL"},
		rows,
		[]columnAlignment{alignRight},
		color,
	)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
