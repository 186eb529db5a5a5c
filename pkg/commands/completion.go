package commands

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(todo completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(todo completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// collectionCompletions reads the data file directly, without a session.
func collectionCompletions(toComplete string) []string {
	env, err := openEnv()
	if err != nil || env.Gateway == nil {
		return nil
	}
	defer env.Close()

	records, err := env.Gateway.Load()
	if err != nil {
		return nil
	}
	prefix := strings.ToLower(toComplete)
	seen := make(map[string]bool, len(records))
	cs := make([]string, 0, len(records))
	for _, r := range records {
		if seen[r.Title] || !strings.HasPrefix(strings.ToLower(r.Title), prefix) {
			continue
		}
		seen[r.Title] = true
		cs = append(cs, strconv.Quote(r.Title))
	}
	return cs
}
