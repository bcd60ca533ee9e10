package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"papercast/internal/analysis"
	"papercast/internal/config"
	"papercast/internal/document"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Classify a document's theme, mood, and genre",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			extractor := document.NewExtractor(cfg, ctx.ensureLogger())
			doc, err := extractor.Extract(cmd.Context(), path, nil)
			if err != nil {
				return err
			}

			a := analysis.Analyze(doc.Text)
			style := analysis.RecommendedStyle(a)

			rows := [][]string{
				{"Theme", a.Theme},
				{"Mood", a.Mood},
				{"Genre", a.Genre},
				{"Keywords", strings.Join(a.Keywords, ", ")},
				{"Visual style", fmt.Sprintf("%s (%s)", style.Name, style.ID)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
	return cmd
}
