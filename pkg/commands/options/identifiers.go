package options

import (
	"github.com/spf13/cobra"
)

// NumberOptions
type NumberOptions struct {
	ShowNumber bool
}

func AddShowNumberArgs(cmd *cobra.Command, o *NumberOptions) {
	cmd.Flags().BoolVarP(&o.ShowNumber, "show-number", "n", false,
		"Show the number used to address each task.")
}
