package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"papercast/internal/workflow"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "Workflow template catalog",
	}

	templatesCmd.AddCommand(newTemplatesListCommand(ctx))
	templatesCmd.AddCommand(newTemplatesShowCommand(ctx))
	templatesCmd.AddCommand(newTemplatesResetCommand(ctx))

	return templatesCmd
}

func newTemplatesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available templates",
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

			rows := make([][]string, 0)
			for _, tpl := range catalog.List() {
				rows = append(rows, []string{
					tpl.ID,
					tpl.Name,
					tpl.Category,
					strconv.Itoa(len(tpl.Steps)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"ID", "Name", "Category", "Steps"}, rows, 3))
			return nil
		},
	}
}

func newTemplatesShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <template-id>",
		Short: "Show a template's steps",
		Args:  cobra.ExactArgs(1),
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
			tpl, err := catalog.Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n%s\n\n", tpl.Name, tpl.ID, tpl.Description)

			rows := make([][]string, 0, len(tpl.Steps))
			for i, step := range tpl.Steps {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					step.Title,
					string(step.Type),
					strings.Join(step.Dependencies, ", "),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Step", "Type", "Depends on"}, rows, 0))
			return nil
		},
	}
}

func newTemplatesResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the built-in templates",
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
			if err := catalog.ResetToDefaults(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d built-in templates\n", len(catalog.List()))
			return nil
		},
	}
}
