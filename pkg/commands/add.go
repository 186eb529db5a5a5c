package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	co := &options.CollectionOptions{}
	io := &options.InteractiveOptions{}
	var title string

	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task to a collection.",
		Example: `
todo add -c Home buy milk
todo add -c "#2" -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			title = strings.Join(args, " ")
			if strings.TrimSpace(title) == "" && !io.Interactive {
				return errors.New("requires a task title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if strings.TrimSpace(title) == "" {
				var err error
				if title, err = promptText(cmd, "Task"); err != nil {
					return output.HandleError(err)
				}
			}
			svc, _, done, err := openService()
			if err != nil {
				return output.HandleError(err)
			}
			defer done()

			s := add.Add{
				Collection: co.Collection,
				Title:      title,
				Service:    svc,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddCollectionArgs(cmd, co, "#1")
	_ = cmd.RegisterFlagCompletionFunc("collection", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return collectionCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	options.InteractiveArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
