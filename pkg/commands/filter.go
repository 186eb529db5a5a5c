package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/commands/options"
	"tableflip.dev/todo/pkg/runner/preference"
)

func addFilter(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "filter [All|Open|Done]",
		Short: "Show or store the task filter.",
		Long: `Without an argument the stored filter is printed. With one it is saved and
used by the UI and by get.`,
		Example: `
todo filter
todo filter Open
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: options.FilterNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, _, done, err := openService()
			if err != nil {
				return output.HandleError(err)
			}
			defer done()

			p := preference.Preference{Service: svc}
			if len(args) == 1 {
				p.Value = args[0]
			}
			return output.HandleError(p.Do(context.Background()))
		},
	}

	topLevel.AddCommand(cmd)
}
