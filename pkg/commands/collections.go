package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/runner/collections"
)

func addCollections(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"c"},
		Short:   "Manage collections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newCollectionsListCmd())
	cmd.AddCommand(newCollectionsNewCmd())
	topLevel.AddCommand(cmd)
}

func newCollectionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List collections with open and done counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, done, err := openService()
			if err != nil {
				return output.HandleError(err)
			}
			defer done()

			r := collections.List{Service: svc}
			return output.HandleError(r.Do(context.Background()))
		},
	}
}

func newCollectionsNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new [title...]",
		Short: "Create a collection, prompting for the title when it is not given",
		Example: `
todo collections new Groceries
todo collections new
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			title := strings.Join(args, " ")
			if strings.TrimSpace(title) == "" {
				var err error
				if title, err = promptText(cmd, "Collection"); err != nil {
					return output.HandleError(err)
				}
			}
			svc, _, done, err := openService()
			if err != nil {
				return output.HandleError(err)
			}
			defer done()

			r := collections.New{Title: title, Service: svc}
			return output.HandleError(r.Do(context.Background()))
		},
	}
}
