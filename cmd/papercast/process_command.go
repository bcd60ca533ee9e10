package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"papercast/internal/config"
	"papercast/internal/document"
	"papercast/internal/state"
	"papercast/internal/workflow"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Run a workflow template over a document",
		Long: `Extracts the document, starts the chosen template, and executes its steps
in dependency order. Without a file argument the document selected with
"papercast documents select" is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileArg := ""
			if len(args) > 0 {
				fileArg = args[0]
			}
			return ctx.withLock(func() error {
				return runProcess(ctx, cmd, fileArg, templateID)
			})
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", "research-to-podcast", "Workflow template to run")
	return cmd
}

func runProcess(ctx *commandContext, cmd *cobra.Command, fileArg, templateID string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logger := ctx.ensureLogger()

	store, err := ctx.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := resolveProcessDocument(ctx, cmd, store, fileArg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Extracted %q (%d pages, %d words)\n", doc.Metadata.Title, doc.PageCount, doc.WordCount)

	if err := store.SaveDocument(cmd.Context(), doc); err != nil {
		return err
	}

	client, err := ctx.newClient()
	if err != nil {
		return err
	}

	catalog, err := workflow.NewCatalog(cmd.Context(), store)
	if err != nil {
		return err
	}
	engine := workflow.NewEngine(workflow.EngineOptions{
		Catalog:         catalog,
		Store:           store,
		Executor:        workflow.NewAPIExecutor(cfg, client, logger),
		Logger:          logger,
		ContextMaxChars: cfg.Workflow.ContextMaxChars,
		StepTimeout:     cfg.StepTimeout(),
	})
	engine.SetDocument(doc.Text, doc.Metadata.Title)

	run, err := engine.StartWorkflow(cmd.Context(), templateID, doc.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Started workflow %s with %d steps\n\n", run.TemplateID, len(run.Steps))

	runErr := engine.Run(cmd.Context())
	printRun(out, engine.Current())
	return runErr
}

// resolveProcessDocument extracts the named file, or falls back to the
// document selected with `documents select`. Selected documents are
// re-extracted from their recorded path so the workflow sees the full text
// rather than the truncated stored copy.
func resolveProcessDocument(ctx *commandContext, cmd *cobra.Command, store *state.Store, fileArg string) (*document.Document, error) {
	cfg := ctx.configValue()
	extractor := document.NewExtractor(cfg, ctx.ensureLogger())

	if strings.TrimSpace(fileArg) != "" {
		path, err := config.ExpandPath(fileArg)
		if err != nil {
			return nil, err
		}
		return extractor.Extract(cmd.Context(), path, nil)
	}

	var docID string
	found, err := store.LoadSnapshot(cmd.Context(), currentDocumentSnapshot, currentDocumentVersion, &docID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no document given and none selected; run `papercast documents select <id>` first")
	}
	stored, err := store.GetDocument(cmd.Context(), docID)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(stored.Path); statErr == nil {
		return extractor.Extract(cmd.Context(), stored.Path, nil)
	}
	return stored, nil
}

func printRun(out io.Writer, run *workflow.Run) {
	if run == nil {
		fmt.Fprintln(out, "No active workflow")
		return
	}
	colorize := shouldColorize(out)

	rows := make([][]string, 0, len(run.Steps))
	for _, step := range run.Steps {
		detail := ""
		switch {
		case step.ErrMessage != "":
			detail = step.ErrMessage
		case step.Result != nil && step.Result.AudioPath != "":
			detail = fmt.Sprintf("%s (%.1fs)", step.Result.AudioPath, step.Result.DurationSeconds)
		case step.Result != nil && step.Result.ImagePath != "":
			detail = step.Result.ImagePath
		case step.Result != nil && step.Result.ImageURL != "":
			detail = step.Result.ImageURL
		case step.Result != nil:
			detail = summarizeCell(step.Result.Text, 60)
		}
		rows = append(rows, []string{
			step.Title,
			string(step.Type),
			stepStatusLabel(step.Status, colorize),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Step", "Type", "Status", "Output"}, rows))
	fmt.Fprintf(out, "Workflow status: %s\n", run.Status)
}
