package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/asenkovskiy/skill-granola/credentials"
	"github.com/asenkovskiy/skill-granola/pkg/diag"
)

// NewAuthCommand creates the 'auth' command with its subcommands.
func NewAuthCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Inspect and manage the Granola access token",
	}

	cmd.AddCommand(newAuthStatusCommand(deps))
	cmd.AddCommand(newAuthSetTokenCommand())
	cmd.AddCommand(newAuthClearCommand())

	return cmd
}

// newAuthStatusCommand creates the 'auth status' subcommand.
func newAuthStatusCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the access token comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(deps)
			if err != nil {
				return diag.Wrap(diag.KindConfig, err, "configuration is unusable", "check --storage and GRANOLA_* environment variables")
			}

			token, err := deps.ResolveToken(cfg.AuthFilePath)
			if err != nil {
				return diag.Wrap(diag.KindAuth, err, "no Granola access token",
					"set GRANOLA_TOKEN, run 'granola auth set-token', or install the Granola desktop app")
			}

			status := map[string]interface{}{
				"source": string(token.Source),
				"token":  credentials.MaskToken(token.Value),
			}
			if !token.ObtainedAt.IsZero() {
				status["obtained_at"] = token.ObtainedAt.Format(time.RFC3339)
				status["maybe_expired"] = token.MaybeExpired(time.Now())
			}

			return output(cfg.OutputFormat, status, func() error {
				fmt.Printf("Token:  %s\n", status["token"])
				fmt.Printf("Source: %s\n", status["source"])
				if v, ok := status["obtained_at"]; ok {
					fmt.Printf("Obtained: %s\n", v)
				}
				if v, ok := status["maybe_expired"]; ok && v == true {
					fmt.Println("Warning: token lifetime has elapsed, the API may reject it")
				}
				return nil
			})
		},
	}
	addCommonFlags(cmd)
	return cmd
}

// newAuthSetTokenCommand creates the 'auth set-token' subcommand.
func newAuthSetTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-token [token]",
		Short: "Store an access token override in the system keyring",
		Long: `Store an access token in the system keyring. The keyring token takes
precedence over the desktop app's auth file; the GRANOLA_TOKEN environment
variable still overrides both.

With no argument the token is read from the terminal without echo, or from
stdin when piped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			switch {
			case len(args) == 1:
				token = args[0]
			case term.IsTerminal(int(os.Stdin.Fd())):
				fmt.Fprint(os.Stderr, "Access token: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return fmt.Errorf("reading token: %w", err)
				}
				token = string(raw)
			default:
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading token from stdin: %w", err)
				}
				token = line
			}

			token = strings.TrimSpace(token)
			if token == "" {
				return diag.New(diag.KindAuth, "empty token", "pass the token as an argument or type it at the prompt")
			}

			if err := credentials.StoreInKeyring(token); err != nil {
				return diag.Wrap(diag.KindAuth, err, "could not store token", "check that a system keyring service is available")
			}
			fmt.Printf("Stored token %s in the system keyring.\n", credentials.MaskToken(token))
			return nil
		},
	}
}

// newAuthClearCommand creates the 'auth clear' subcommand.
func newAuthClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the keyring token override",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credentials.ClearKeyring(); err != nil {
				return diag.Wrap(diag.KindAuth, err, "could not clear token", "check that a system keyring service is available")
			}
			fmt.Println("Keyring token cleared.")
			return nil
		},
	}
}
