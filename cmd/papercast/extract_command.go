package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"papercast/internal/config"
	"papercast/internal/document"
	"papercast/internal/fileutil"
	"papercast/internal/textutil"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var showText bool
	var save bool

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract text and metadata from a document",
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

			out := cmd.OutOrStdout()
			extractor := document.NewExtractor(cfg, ctx.ensureLogger())
			doc, err := extractor.Extract(cmd.Context(), path, func(event document.ProgressEvent) {
				if event.Status == document.ProgressExtracting && event.TotalPages > 1 {
					fmt.Fprintf(out, "\rExtracting page %d/%d (%.0f%%)", event.CurrentPage, event.TotalPages, event.Progress)
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprint(out, "\r")

			rows := [][]string{
				{"ID", doc.ID},
				{"Title", doc.Metadata.Title},
				{"Pages", strconv.Itoa(doc.PageCount)},
				{"Words", strconv.Itoa(doc.WordCount)},
				{"Size", textutil.FormatFileSize(doc.SizeBytes)},
			}
			if doc.Metadata.Author != "" {
				rows = append(rows, []string{"Author", doc.Metadata.Author})
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))

			if save {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				defer store.Close()

				// Archive the original so the document survives the source
				// file moving; the stored path points at the archive.
				archive := filepath.Join(cfg.Paths.DataDir, "documents", doc.ID+"."+doc.ContentType)
				if err := fileutil.ArchiveCopy(path, archive); err != nil {
					return err
				}
				doc.Path = archive

				if err := store.SaveDocument(cmd.Context(), doc); err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved document %s\n", doc.ID)
			}
			if showText {
				fmt.Fprintln(out)
				fmt.Fprintln(out, doc.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showText, "text", false, "Print the extracted text")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the document in the local store")
	return cmd
}
