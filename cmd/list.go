package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asenkovskiy/skill-granola/meeting"
	"github.com/asenkovskiy/skill-granola/pkg/diag"
	"github.com/asenkovskiy/skill-granola/store"
)

// List command flags.
var (
	listDate        string
	listStart       string
	listEnd         string
	listTitle       string
	listParticipant string
	listCompact     bool
)

// compactMeeting is the trimmed per-meeting record for --compact output.
type compactMeeting struct {
	ID    string `json:"id" yaml:"id"`
	Date  string `json:"date" yaml:"date"`
	Title string `json:"title" yaml:"title"`
}

// NewListCommand creates the 'list' command.
func NewListCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List synced meetings",
		Long: `List synced meetings in reverse chronological order, with optional
filtering by date, title, and participant.

Date values accept YYYY-MM-DD plus the words today, yesterday, 'last week',
and 'last month'.

Examples:
  granola list
  granola list --date today
  granola list --start "last week" --title standup
  granola list --participant alice@example.com -o json
  granola list --compact`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(deps)
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().StringVar(&listDate, "date", "", "Only meetings on this date")
	cmd.Flags().StringVar(&listStart, "start", "", "Only meetings on or after this date")
	cmd.Flags().StringVar(&listEnd, "end", "", "Only meetings on or before this date")
	cmd.Flags().StringVar(&listTitle, "title", "", "Case-insensitive title pattern")
	cmd.Flags().StringVar(&listParticipant, "participant", "", "Participant name or email substring")
	cmd.Flags().BoolVar(&listCompact, "compact", false, "Only print id, date, and title per meeting")

	return cmd
}

// runList executes the list command.
func runList(deps *Deps) error {
	cfg, err := loadConfig(deps)
	if err != nil {
		return diag.Wrap(diag.KindConfig, err, "configuration is unusable", "check --storage and GRANOLA_* environment variables")
	}

	st := store.New(cfg.StorageRoot, newLogger(cfg))
	metas, err := meeting.ApplyFilters(st.ListAll(), meeting.Filters{
		On:          listDate,
		Start:       listStart,
		End:         listEnd,
		Title:       listTitle,
		Participant: listParticipant,
	})
	if err != nil {
		return diag.Wrap(diag.KindConfig, err, "invalid filter", "check the --title pattern syntax")
	}

	if listCompact {
		compact := make([]compactMeeting, 0, len(metas))
		for _, m := range metas {
			compact = append(compact, compactMeeting{ID: m.ID, Date: m.Date(), Title: m.Title})
		}
		return output(cfg.OutputFormat, compact, func() error {
			for _, m := range compact {
				fmt.Printf("%s  %s  %s\n", m.ID, m.Date, m.Title)
			}
			return nil
		})
	}

	result := map[string]interface{}{
		"meetings": metas,
		"count":    len(metas),
	}
	return output(cfg.OutputFormat, result, func() error {
		return outputMeetingListText(metas)
	})
}

// outputMeetingListText formats the meeting list for terminal display.
func outputMeetingListText(metas []meeting.Metadata) error {
	if len(metas) == 0 {
		fmt.Println("No meetings found.")
		return nil
	}

	fmt.Printf("Meetings (%d):\n\n", len(metas))
	fmt.Println("  DATE        TITLE                                         PARTICIPANTS")
	fmt.Println("  ----        -----                                         ------------")

	for _, m := range metas {
		title := m.Title
		if title == "" {
			title = "Untitled"
		}
		if len(title) > 45 {
			title = title[:42] + "..."
		}

		names := m.People.DisplayNames()
		participants := ""
		for i, n := range names {
			if i > 0 {
				participants += ", "
			}
			participants += n
		}
		if len(participants) > 40 {
			participants = participants[:37] + "..."
		}

		date := m.Date()
		if date == "" {
			date = "unknown"
		}

		fmt.Printf("  %-11s %-45s %s\n", date, title, participants)
	}

	fmt.Println()
	return nil
}
