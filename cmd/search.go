package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asenkovskiy/skill-granola/pkg/diag"
	"github.com/asenkovskiy/skill-granola/store"
)

// Search command flags.
var searchContext int

// NewSearchCommand creates the 'search' command.
func NewSearchCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search synced transcripts",
		Long: `Search every synced transcript with a case-insensitive regular
expression, grouped by meeting.

Examples:
  granola search "action item"
  granola search deadline --context 2
  granola search "budget|forecast" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(deps, args[0])
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().IntVarP(&searchContext, "context", "C", 0, "Lines of context around each match")

	return cmd
}

// runSearch executes the search command.
func runSearch(deps *Deps, pattern string) error {
	cfg, err := loadConfig(deps)
	if err != nil {
		return diag.Wrap(diag.KindConfig, err, "configuration is unusable", "check --storage and GRANOLA_* environment variables")
	}

	st := store.New(cfg.StorageRoot, newLogger(cfg))
	results, err := st.SearchTranscripts(pattern, searchContext)
	if err != nil {
		return diag.Wrap(diag.KindConfig, err, "invalid search pattern", "the pattern must be a valid regular expression")
	}

	return output(cfg.OutputFormat, results, func() error {
		return outputSearchText(results)
	})
}

// outputSearchText formats search results for terminal display.
func outputSearchText(results []store.SearchResult) error {
	if len(results) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("%s (%s, %d matches)\n", r.Title, r.Date, len(r.Matches))
		for _, m := range r.Matches {
			fmt.Printf("  %d: %s\n", m.Line, m.Text)
			if m.Context != "" {
				fmt.Printf("%s\n", indent(m.Context, "     | "))
			}
		}
		fmt.Println()
	}
	return nil
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
