package options

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/filter"
)

// FilterOptions overrides the stored filter for a single listing.
type FilterOptions struct {
	Filter string
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Filter, "filter", "f", "",
		"One of All, Open or Done. Defaults to the stored filter.")
	_ = cmd.RegisterFlagCompletionFunc("filter", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return FilterNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// Preference returns the requested filter, or "" for the stored one.
func (o *FilterOptions) Preference() (filter.Preference, error) {
	if strings.TrimSpace(o.Filter) == "" {
		return "", nil
	}
	return filter.ParsePreference(o.Filter)
}

// FilterNames lists valid filter values for completion.
func FilterNames() []string {
	out := make([]string, 0, 3)
	for _, p := range filter.Preferences() {
		out = append(out, string(p))
	}
	return out
}
