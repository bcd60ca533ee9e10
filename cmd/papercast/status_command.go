package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"papercast/internal/workflow"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the persisted workflow state",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			catalog, err := workflow.NewCatalog(cmd.Context(), store)
			if err != nil {
				return err
			}
			engine := workflow.NewEngine(workflow.EngineOptions{Catalog: catalog, Store: store})

			out := cmd.OutOrStdout()
			if clear {
				if err := engine.ClearWorkflow(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared workflow state")
				return nil
			}

			found, err := engine.Restore(cmd.Context())
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintln(out, "No active workflow")
				return nil
			}

			run := engine.Current()
			for _, line := range renderSectionHeader("Workflow "+run.TemplateID, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "Started: %s\n\n", run.StartedAt.Format("2006-01-02 15:04:05"))
			printRun(out, run)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Discard the persisted workflow state")
	return cmd
}
