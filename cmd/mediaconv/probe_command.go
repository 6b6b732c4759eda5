package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mediaconv"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var postersAsVideo bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media file's container and streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			conv, err := ctx.ensureConverter()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("posters-as-video") {
				postersAsVideo = cfg.Conversion.PostersAsVideo
			}
			info, err := conv.Probe(cmd.Context(), args[0], postersAsVideo)
			if err != nil {
				return err
			}
			if info == nil {
				return fmt.Errorf("no readable media at %s", args[0])
			}
			if jsonOutput {
				return writeJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Container: %s  duration %s  size %d bytes  bitrate %s\n",
				info.Format.Format,
				formatSeconds(info.Format.Duration),
				info.Format.Size,
				formatBitrate(info.Format.BitRate))

			rows := make([][]string, 0, len(info.Streams))
			for _, stream := range info.Streams {
				rows = append(rows, []string{
					strconv.Itoa(stream.Index),
					string(stream.Kind),
					stream.Codec,
					streamDetail(stream),
					stream.LanguageName(),
					yesNo(stream.AttachedPic),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Kind", "Codec", "Detail", "Language", "Picture"},
				rows, 0))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	cmd.Flags().BoolVar(&postersAsVideo, "posters-as-video", false, "Treat attached pictures as ordinary video streams")
	return cmd
}

func streamDetail(stream mediaconv.MediaStreamInfo) string {
	switch stream.Kind {
	case mediaconv.KindVideo:
		detail := fmt.Sprintf("%dx%d", stream.Width, stream.Height)
		if stream.FrameRate > 0 {
			detail += fmt.Sprintf(" @ %.3g fps", stream.FrameRate)
		}
		if stream.PixelFormat != "" {
			detail += " " + stream.PixelFormat
		}
		return detail
	case mediaconv.KindAudio:
		return fmt.Sprintf("%d ch %d Hz %s", stream.Channels, stream.SampleRate, formatBitrate(stream.BitRate))
	default:
		return ""
	}
}
