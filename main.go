// Package main provides the granola CLI entry point.
// granola mirrors Granola meeting notes into a local folder and queries the
// mirror offline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asenkovskiy/skill-granola/cmd"
	"github.com/asenkovskiy/skill-granola/config"
	"github.com/asenkovskiy/skill-granola/pkg/buildinfo"
	"github.com/asenkovskiy/skill-granola/pkg/diag"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "granola",
	Short: "Granola meeting notes, mirrored and queryable offline",
	Long: `granola syncs meeting-note documents from the Granola API into a local,
human-browsable folder structure, one directory per meeting, and then lets
you list, filter, show, copy, and search that mirror without touching the
network again.

COMMON WORKFLOWS:
  First sync:       granola sync
  Recent meetings:  granola list --start "last week"
  Read a meeting:   granola show 2025-01-15_Team-Sync --transcript
  Find a topic:     granola search "action item" --context 2
  Export meetings:  granola get 3f8a91c2 --output-dir ./export

Query commands support --output json|yaml for machine-readable results.
Run 'granola <command> --help' for flags and examples.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildinfo.Get()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "granola version %s\n", info.Version)
		fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
		fmt.Fprintf(out, "  built:      %s\n", info.BuildTime)
		fmt.Fprintf(out, "  go version: %s\n", info.GoVersion)
		return nil
	},
}

// configCmd manages CLI configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `View and modify the granola CLI configuration settings.`,
}

// configShowCmd displays the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long:  `Display the effective configuration after flags, environment, and the config file are combined.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load("")

		fmt.Println("Current configuration:")
		fmt.Printf("  Config file:   %s\n", config.ConfigPath())
		fmt.Printf("  Storage root:  %s\n", cfg.StorageRoot)
		fmt.Printf("  API base URL:  %s\n", cfg.APIBaseURL)
		fmt.Printf("  Auth file:     %s\n", cfg.AuthFilePath)
		fmt.Printf("  Output format: %s\n", cfg.OutputFormat)
		fmt.Printf("  Fetch limit:   %d\n", cfg.FetchLimit)
		return nil
	},
}

// configInitCmd creates the config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with the default storage location if one doesn't exist.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigPath()
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Configuration file already exists: %s\n", path)
			fmt.Println("Use 'granola config show' to view current settings.")
			return nil
		}

		cfg := config.Load("")
		if err := config.SaveStorage(cfg.StorageRoot); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Printf("Created configuration file: %s\n", path)
		fmt.Printf("  Storage root: %s\n", cfg.StorageRoot)
		return nil
	},
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Available keys:
  storage  - Storage root for synced meeting folders (supports ~)

Examples:
  granola config set storage ~/Documents/granola-meetings
  granola config set storage /srv/meetings`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		switch key {
		case "storage":
			if err := config.SaveStorage(value); err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}
			fmt.Printf("Set storage = %s\n", config.ExpandPath(value))
		default:
			return fmt.Errorf("unknown configuration key: %s", key)
		}
		return nil
	},
}

// completionCmd generates shell completion scripts.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for granola.

To load completions:

Bash:
  $ source <(granola completion bash)

Zsh:
  $ granola completion zsh > "${fpath[1]}/_granola"

Fish:
  $ granola completion fish | source

PowerShell:
  PS> granola completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	deps := cmd.DefaultDeps()

	rootCmd.AddCommand(cmd.NewSyncCommand(deps))
	rootCmd.AddCommand(cmd.NewListCommand(deps))
	rootCmd.AddCommand(cmd.NewShowCommand(deps))
	rootCmd.AddCommand(cmd.NewGetCommand(deps))
	rootCmd.AddCommand(cmd.NewSearchCommand(deps))
	rootCmd.AddCommand(cmd.NewAuthCommand(deps))

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	// Set up signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError renders a command error. Structured diagnostics get their hint
// and, in machine formats, a JSON body; everything else is a plain line.
func printError(err error) {
	d, ok := diag.From(err)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	if os.Getenv(config.EnvOutputFormat) == string(config.OutputJSON) {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(d)
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", d)
	if d.Hint != "" {
		fmt.Fprintf(os.Stderr, "  hint: %s\n", d.Hint)
	}
}
