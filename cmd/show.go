package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asenkovskiy/skill-granola/meeting"
	"github.com/asenkovskiy/skill-granola/pkg/diag"
	"github.com/asenkovskiy/skill-granola/store"
)

// Show command flags.
var showTranscript bool

// showResult is the show command's structured result.
type showResult struct {
	Metadata   *meeting.Metadata `json:"metadata" yaml:"metadata"`
	Notes      string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Transcript string            `json:"transcript,omitempty" yaml:"transcript,omitempty"`
	Path       string            `json:"path" yaml:"path"`
}

// NewShowCommand creates the 'show' command.
func NewShowCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one synced meeting",
		Long: `Show a synced meeting's metadata and notes. The id may be a folder
name, a document id, or a prefix of either.

Examples:
  granola show 2025-01-15_Team-Sync
  granola show 3f8a91c2
  granola show 3f8a91c2 --transcript
  granola show 3f8a91c2 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(deps, args[0])
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().BoolVar(&showTranscript, "transcript", false, "Include the rendered transcript")

	return cmd
}

// runShow executes the show command.
func runShow(deps *Deps, identifier string) error {
	cfg, err := loadConfig(deps)
	if err != nil {
		return diag.Wrap(diag.KindConfig, err, "configuration is unusable", "check --storage and GRANOLA_* environment variables")
	}

	st := store.New(cfg.StorageRoot, newLogger(cfg))
	dir, found := st.Resolve(identifier)
	if !found {
		return diag.New(diag.KindNotFound, "no meeting matches "+identifier, "run 'granola list' to see synced meetings")
	}

	result := showResult{Path: dir}
	if meta, ok := st.LoadMetadata(dir); ok {
		result.Metadata = meta
	}
	if data, err := os.ReadFile(filepath.Join(dir, store.NotesFile)); err == nil {
		result.Notes = string(data)
	}
	if showTranscript {
		if data, err := os.ReadFile(filepath.Join(dir, store.TranscriptMDFile)); err == nil {
			result.Transcript = string(data)
		}
	}

	return output(cfg.OutputFormat, result, func() error {
		return outputShowText(result)
	})
}

// outputShowText formats one meeting for terminal display.
func outputShowText(r showResult) error {
	if r.Metadata != nil {
		m := r.Metadata
		title := m.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Printf("Meeting: %s\n", title)
		fmt.Printf("Date:    %s\n", m.Date())
		fmt.Printf("ID:      %s\n", m.ID)
		if names := m.People.DisplayNames(); len(names) > 0 {
			fmt.Printf("People:  %s\n", strings.Join(names, ", "))
		}
	}
	fmt.Printf("Path:    %s\n", r.Path)

	if r.Notes != "" {
		fmt.Printf("\n%s\n", strings.TrimRight(r.Notes, "\n"))
	}
	if r.Transcript != "" {
		fmt.Printf("\n%s\n", strings.TrimRight(r.Transcript, "\n"))
	}
	return nil
}
