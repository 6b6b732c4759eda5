package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaconv"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "formats",
		Short:       "List supported containers and codecs",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			listing := map[string][]string{
				"formats":         mediaconv.Formats(),
				"audio_codecs":    mediaconv.AudioCodecs(),
				"video_codecs":    mediaconv.VideoCodecs(),
				"subtitle_codecs": mediaconv.SubtitleCodecs(),
			}
			if jsonOutput {
				return writeJSON(cmd, listing)
			}

			rows := [][]string{
				{"Containers", joinNames(listing["formats"])},
				{"Audio codecs", joinNames(listing["audio_codecs"])},
				{"Video codecs", joinNames(listing["video_codecs"])},
				{"Subtitle codecs", joinNames(listing["subtitle_codecs"])},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Kind", "Names"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	return cmd
}

func joinNames(names []string) string {
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
