package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"papercast/internal/textutil"
)

func newDocumentsCommand(ctx *commandContext) *cobra.Command {
	documentsCmd := &cobra.Command{
		Use:   "documents",
		Short: "Stored document utilities",
	}

	documentsCmd.AddCommand(newDocumentsListCommand(ctx))
	documentsCmd.AddCommand(newDocumentsSelectCommand(ctx))
	documentsCmd.AddCommand(newDocumentsRemoveCommand(ctx))

	return documentsCmd
}

const (
	currentDocumentSnapshot = "current-document"
	currentDocumentVersion  = 1
)

func newDocumentsSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <document-id>",
		Short: "Mark a stored document as the current workflow input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := store.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := store.SaveSnapshot(cmd.Context(), currentDocumentSnapshot, currentDocumentVersion, doc.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected %q (%s)\n", doc.Metadata.Title, doc.ID)
			return nil
		},
	}
}

func newDocumentsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			docs, err := store.ListDocuments(cmd.Context())
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No documents stored")
				return nil
			}

			rows := make([][]string, 0, len(docs))
			for _, doc := range docs {
				rows = append(rows, []string{
					doc.ID,
					summarizeCell(doc.Metadata.Title, 40),
					strconv.Itoa(doc.PageCount),
					strconv.Itoa(doc.WordCount),
					textutil.FormatFileSize(doc.SizeBytes),
					doc.ExtractedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"ID", "Title", "Pages", "Words", "Size", "Extracted"}, rows, 2, 3, 4))
			return nil
		},
	}
}

func newDocumentsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <document-id>",
		Short: "Remove a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.RemoveDocument(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed document %s\n", args[0])
			return nil
		},
	}
}
