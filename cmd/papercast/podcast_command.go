package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"papercast/internal/audio"
	"papercast/internal/config"
	"papercast/internal/script"
	"papercast/internal/services/lemonfox"
	"papercast/internal/textutil"
)

func newPodcastCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var speed float64
	var pause float64
	var voices []string

	cmd := &cobra.Command{
		Use:   "podcast <script-file>",
		Short: "Synthesize a multi-speaker podcast from a script file",
		Long: `Reads a script where each spoken line has the form "Speaker: text" and an
optional "[TITLE] ..." line, synthesizes every line, and stitches the
segments into a single WAV file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}

			voiceRotation := cfg.Podcast.Voices
			if len(voices) > 0 {
				voiceRotation = voices
			}
			scr := script.ParseWithVoices(string(raw), voiceRotation)
			if len(scr.Lines) == 0 {
				return fmt.Errorf("script %s contains no dialogue lines", path)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parsed %q: %d speakers, %d lines\n", scr.Title, len(scr.Speakers), len(scr.Lines))

			client, err := ctx.newClient()
			if err != nil {
				return err
			}

			if speed <= 0 {
				speed = cfg.Podcast.Speed
			}
			if pause < 0 {
				pause = cfg.Podcast.PauseBetweenSpeakers
			}

			stitcher := audio.NewStitcher(podcastSynthesizer{client: client}, ctx.ensureLogger())
			result, err := stitcher.Stitch(cmd.Context(), scr, audio.Options{
				Speed:                speed,
				PauseBetweenSpeakers: pause,
				OnProgress: func(p audio.Progress) {
					fmt.Fprintf(out, "\rSynthesizing line %d/%d (%.0f%%)", p.LineIndex, p.TotalLines, p.Percent)
				},
			})
			fmt.Fprintln(out)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				name := textutil.SanitizeFileName(scr.Title)
				if name == "" {
					name = "podcast"
				}
				target = filepath.Join(cfg.Paths.StagingDir, name+".wav")
			}
			if err := os.WriteFile(target, result.Audio, 0o644); err != nil {
				return fmt.Errorf("write podcast: %w", err)
			}
			fmt.Fprintf(out, "Wrote %s (%.1fs, %s)\n",
				target, result.TotalDuration, textutil.FormatFileSize(int64(len(result.Audio))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output WAV path (defaults to the staging directory)")
	cmd.Flags().Float64Var(&speed, "speed", 0, "Playback speed multiplier")
	cmd.Flags().Float64Var(&pause, "pause", -1, "Silence between speakers in seconds")
	cmd.Flags().StringSliceVar(&voices, "voices", nil, "Voice rotation applied to speakers in order of appearance")
	return cmd
}

type podcastSynthesizer struct {
	client *lemonfox.Client
}

func (p podcastSynthesizer) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	return p.client.GenerateSpeech(ctx, lemonfox.SpeechRequest{
		Input:          text,
		Voice:          voice,
		Speed:          speed,
		ResponseFormat: "wav",
	})
}
