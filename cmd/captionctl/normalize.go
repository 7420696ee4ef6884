package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Belphemur/SuperCaptions/internal/captions"
	"github.com/Belphemur/SuperCaptions/internal/models"
)

func newNormalizeCommand() *cobra.Command {
	var (
		format string
		dedupe bool
	)

	cmd := &cobra.Command{
		Use:   "normalize <file|->",
		Short: "Convert a local SRT, WebVTT or MicroDVD file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch format {
			case "vtt":
				converted, err := captions.ConvertToVTT(raw)
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, converted)
				return err
			case "srt":
				converted, err := captions.ConvertToSRT(raw)
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, converted)
				return err
			case "cues":
				cues, err := captions.Normalize(raw)
				if err != nil {
					return err
				}
				if dedupe {
					cues = captions.Dedupe(cues)
				}
				fmt.Fprintln(out, renderCues(cues, isTerminal(out)))
				return nil
			default:
				return errors.New("--format must be one of vtt, srt, cues")
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "vtt", "Output format: vtt, srt or cues")
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Drop consecutive duplicate cues (cues output only)")

	return cmd
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func renderCues(cues []models.Cue, color bool) string {
	rows := make([][]string, 0, len(cues))
	for i, cue := range cues {
		rows = append(rows, []string{
			captions.CueID(i, cue.Start, cue.End),
			formatMillis(cue.Start),
			formatMillis(cue.End),
			cue.Content,
		})
	}
	return renderTable(
		[]string{"ID", "Start", "End", "Text"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
		color,
	)
}

func formatMillis(ms int64) string {
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}
