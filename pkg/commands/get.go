package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	co := &options.CollectionOptions{}
	fo := &options.FilterOptions{}
	no := &options.NumberOptions{}

	cmd := &cobra.Command{
		Use:   "get [collection]",
		Short: "List the tasks of one or all collections.",
		Long: `List tasks. Without a collection every collection is printed in sidebar
order. The stored filter applies unless --filter is given.`,
		Example: `
todo get
todo get Home --filter Open
todo get "#2" -n
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				co.Collection = strings.Join(args, " ")
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return collectionCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			pref, err := fo.Preference()
			if err != nil {
				return output.HandleError(err)
			}
			svc, _, done, err := openService()
			if err != nil {
				return output.HandleError(err)
			}
			defer done()

			s := get.Get{
				Collection: co.Collection,
				Filter:     pref,
				ShowNumber: no.ShowNumber,
				Service:    svc,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddShowNumberArgs(cmd, no)

	topLevel.AddCommand(cmd)
}
