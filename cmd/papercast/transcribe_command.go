package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"papercast/internal/config"
	"papercast/internal/services/lemonfox"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var language string
	var speakerLabels bool
	var translate bool

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			client, err := ctx.newClient()
			if err != nil {
				return err
			}

			resp, err := client.Transcribe(cmd.Context(), lemonfox.TranscriptionRequest{
				FilePath:      path,
				Language:      language,
				SpeakerLabels: speakerLabels,
				Translate:     translate,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if speakerLabels && len(resp.Segments) > 0 {
				for _, segment := range resp.Segments {
					speaker := segment.Speaker
					if speaker == "" {
						speaker = "speaker"
					}
					fmt.Fprintf(out, "%s: %s\n", speaker, segment.Text)
				}
				return nil
			}
			fmt.Fprintln(out, resp.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Source language hint")
	cmd.Flags().BoolVar(&speakerLabels, "speakers", false, "Label speakers in the transcript")
	cmd.Flags().BoolVar(&translate, "translate", false, "Translate the transcript to English")
	return cmd
}
