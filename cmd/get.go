package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asenkovskiy/skill-granola/meeting"
	"github.com/asenkovskiy/skill-granola/pkg/diag"
	"github.com/asenkovskiy/skill-granola/pkg/logging"
	"github.com/asenkovskiy/skill-granola/store"
)

// Get command flags.
var getOutputDir string

// getResult is the per-identifier outcome of a get command.
type getResult struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewGetCommand creates the 'get' command.
func NewGetCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "get <id>... --output-dir DIR",
		Short: "Copy meetings into a directory",
		Long: `Copy one or more meetings into the given directory, one subfolder per
meeting. Meetings already synced are copied from local storage; anything
else is fetched from the Granola API by document id.

Examples:
  granola get 2025-01-15_Team-Sync --output-dir ./export
  granola get 3f8a91c2 9b01d4aa -d ./export`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), deps, args)
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().StringVarP(&getOutputDir, "output-dir", "d", "", "Destination directory (required)")
	_ = cmd.MarkFlagRequired("output-dir")

	return cmd
}

// runGet executes the get command.
func runGet(ctx context.Context, deps *Deps, identifiers []string) error {
	cfg, err := loadConfig(deps)
	if err != nil {
		return diag.Wrap(diag.KindConfig, err, "configuration is unusable", "check --storage and GRANOLA_* environment variables")
	}

	log := newLogger(cfg)
	if err := os.MkdirAll(getOutputDir, 0755); err != nil {
		return diag.Wrap(diag.KindConfig, err, "cannot create output directory", "check the --output-dir path and its permissions")
	}

	st := store.New(cfg.StorageRoot, log)
	dest := store.New(getOutputDir, log)

	// The remote fetcher is only built on first use, so purely local copies
	// work without a token.
	var fetcher DocumentFetcher

	results := make([]getResult, 0, len(identifiers))
	failed := false
	for _, id := range identifiers {
		r := getResult{ID: id}

		if dir, found := st.Resolve(id); found {
			target := filepath.Join(getOutputDir, filepath.Base(dir))
			if err := copyDir(dir, target); err != nil {
				r.Error = err.Error()
				failed = true
			} else {
				r.Source = "local"
				r.Path = target
			}
			results = append(results, r)
			continue
		}

		if fetcher == nil {
			token, err := deps.ResolveToken(cfg.AuthFilePath)
			if err != nil {
				return diag.Wrap(diag.KindAuth, err, "no Granola access token",
					"set GRANOLA_TOKEN, run 'granola auth set-token', or install the Granola desktop app")
			}
			if token.MaybeExpired(time.Now()) {
				log.Warn("access token looks expired, the API may reject it")
			}
			fetcher = deps.NewFetcher(cfg.APIBaseURL, token.Value, log)
		}

		doc, err := fetchDocumentByID(ctx, fetcher, cfg.FetchLimit, id)
		if err != nil {
			r.Error = err.Error()
			failed = true
			results = append(results, r)
			continue
		}

		var fetched meeting.FetchedTranscript
		if tr := fetcher.FetchTranscript(ctx, doc.ID); tr.Failed() {
			log.Warn("transcript fetch failed, saving without live transcript",
				logging.F("id", doc.ID), logging.Err(tr.FetchErr))
		} else {
			fetched = tr.Transcript
		}

		if _, err := dest.Save(doc, fetched, true); err != nil {
			r.Error = err.Error()
			failed = true
			results = append(results, r)
			continue
		}
		dir, _ := dest.Resolve(doc.ID)
		r.Source = "remote"
		r.Path = dir
		results = append(results, r)
	}

	if err := output(cfg.OutputFormat, results, func() error {
		for _, r := range results {
			if r.Error != "" {
				fmt.Printf("  failed  %s: %s\n", r.ID, r.Error)
				continue
			}
			fmt.Printf("  copied  %s (%s) -> %s\n", r.ID, r.Source, r.Path)
		}
		return nil
	}); err != nil {
		return err
	}

	if failed {
		return diag.New(diag.KindNotFound, "some meetings could not be copied", "")
	}
	return nil
}

// fetchDocumentByID lists documents and picks the one whose id starts with
// the identifier. The API has no single-document lookup.
func fetchDocumentByID(ctx context.Context, fetcher DocumentFetcher, limit int, identifier string) (*meeting.Document, error) {
	docs, err := fetcher.FetchDocuments(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].ID != "" && strings.HasPrefix(docs[i].ID, identifier) {
			return &docs[i], nil
		}
	}
	return nil, fmt.Errorf("no document matches %s", identifier)
}

// copyDir replaces dst with a recursive copy of src.
func copyDir(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("clearing %s: %w", dst, err)
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
}
