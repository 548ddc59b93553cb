package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asenkovskiy/skill-granola/meeting"
	"github.com/asenkovskiy/skill-granola/pkg/diag"
	"github.com/asenkovskiy/skill-granola/pkg/logging"
	"github.com/asenkovskiy/skill-granola/store"
)

// Sync command flags.
var (
	syncForce bool
	syncSince string
	syncLimit int
)

// syncSummary is the sync command's result.
type syncSummary struct {
	Synced  int    `json:"synced" yaml:"synced"`
	Skipped int    `json:"skipped" yaml:"skipped"`
	Total   int    `json:"total" yaml:"total"`
	Storage string `json:"storage" yaml:"storage"`
}

// NewSyncCommand creates the 'sync' command.
func NewSyncCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync meetings from the Granola API into local storage",
		Long: `Fetch meeting documents from the Granola API and mirror them into the
local storage folder, one directory per meeting.

Meetings whose stored updated_at matches the incoming document are skipped;
use --force to rewrite everything.

Examples:
  granola sync
  granola sync --force
  granola sync --since yesterday
  granola sync --since 2025-01-01 --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), deps)
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().BoolVar(&syncForce, "force", false, "Rewrite meetings even when unchanged")
	cmd.Flags().StringVar(&syncSince, "since", "", "Only sync meetings on or after this date (YYYY-MM-DD, today, yesterday, last week, last month)")
	cmd.Flags().IntVar(&syncLimit, "limit", 0, "Maximum number of documents to fetch (default from config)")

	return cmd
}

// runSync executes the sync command.
func runSync(ctx context.Context, deps *Deps) error {
	cfg, err := loadConfig(deps)
	if err != nil {
		return diag.Wrap(diag.KindConfig, err, "configuration is unusable", "check --storage and GRANOLA_* environment variables")
	}

	log := newLogger(cfg).With(logging.F("run_id", uuid.NewString()))

	token, err := deps.ResolveToken(cfg.AuthFilePath)
	if err != nil {
		return diag.Wrap(diag.KindAuth, err, "no Granola access token",
			"set GRANOLA_TOKEN, run 'granola auth set-token', or install the Granola desktop app")
	}
	if token.MaybeExpired(time.Now()) {
		log.Warn("access token looks expired, the API may reject it",
			logging.F("obtained_at", token.ObtainedAt))
	}

	if err := os.MkdirAll(cfg.StorageRoot, 0755); err != nil {
		return diag.Wrap(diag.KindConfig, err, "cannot create storage root", "check the storage path and its permissions")
	}

	limit := syncLimit
	if limit <= 0 {
		limit = cfg.FetchLimit
	}

	fetcher := deps.NewFetcher(cfg.APIBaseURL, token.Value, log)
	log.Info("fetching documents", logging.F("limit", limit))
	docs, err := fetcher.FetchDocuments(ctx, limit)
	if err != nil {
		return diag.Wrap(diag.KindRemote, err, "document listing failed", "check network access and token validity")
	}

	if syncSince != "" {
		docs = filterSince(docs, syncSince, log)
	}

	st := store.New(cfg.StorageRoot, log)
	progress := stdoutIsTerminal() && !cfg.Quiet

	summary := syncSummary{Total: len(docs), Storage: cfg.StorageRoot}
	for _, doc := range docs {
		if !st.NeedsUpdate(&doc, syncForce) {
			summary.Skipped++
			continue
		}

		var fetched meeting.FetchedTranscript
		result := fetcher.FetchTranscript(ctx, doc.ID)
		if result.Failed() {
			log.Warn("transcript fetch failed, saving without live transcript",
				logging.F("id", doc.ID), logging.Err(result.FetchErr))
		} else {
			fetched = result.Transcript
		}

		status, err := st.Save(&doc, fetched, syncForce)
		if err != nil {
			return diag.Wrap(diag.KindConfig, err, "saving meeting "+doc.ID, "check the storage path and its permissions")
		}
		switch status {
		case store.StatusWritten:
			summary.Synced++
			if progress {
				fmt.Printf("  synced  %s  %s\n", firstN(doc.CreatedAt, 10), doc.Title)
			}
		default:
			summary.Skipped++
		}
	}

	return output(cfg.OutputFormat, summary, func() error {
		fmt.Printf("Synced %d meetings (%d skipped, %d total) into %s\n",
			summary.Synced, summary.Skipped, summary.Total, summary.Storage)
		return nil
	})
}

// filterSince drops documents created before the given date word. An
// unparseable date word disables the filter with a warning rather than
// aborting the sync.
func filterSince(docs []meeting.Document, since string, log logging.Logger) []meeting.Document {
	cutoff, ok := meeting.ParseDateWord(since, time.Now())
	if !ok {
		log.Warn("unrecognized --since value, syncing everything", logging.F("since", since))
		return docs
	}

	kept := docs[:0]
	for _, doc := range docs {
		date, hasDate := meeting.MeetingDate(doc.CreatedAt)
		if hasDate && !date.Before(cutoff) {
			kept = append(kept, doc)
		}
	}
	return kept
}

// firstN returns the first n bytes of s, or s if shorter.
func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
