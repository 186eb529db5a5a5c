package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/runner/complete"
)

func addComplete(topLevel *cobra.Command) {
	topLevel.AddCommand(completeCommand("complete", "Mark a task done.", false))
}

func addReopen(topLevel *cobra.Command) {
	topLevel.AddCommand(completeCommand("reopen", "Mark a done task open again.", true))
}

func completeCommand(use, short string, reopen bool) *cobra.Command {
	co := &options.CollectionOptions{}

	return &cobra.Command{
		Use:     use + " <collection> <n>",
		Short:   short,
		Example: "\ntodo " + use + " Home 2\n",
		Args: func(cmd *cobra.Command, args []string) error {
			return co.ParseCollectionTask(args)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return collectionCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, _, done, err := openService()
			if err != nil {
				return output.HandleError(err)
			}
			defer done()

			s := complete.Complete{
				Collection: co.Collection,
				Number:     co.Number,
				Reopen:     reopen,
				Service:    svc,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}
}
