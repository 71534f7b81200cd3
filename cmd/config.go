package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/daily-git/internal/config"
)

func newConfigCmd(deps dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the stored credentials",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newConfigSetCmd(deps), newConfigShowCmd(deps))
	return cmd
}

func newConfigSetCmd(deps dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "set <token|username> <value>",
		Short: "Store the access token or the GitHub username",
		Long: `Store one credential.

The token is kept in the OS keychain when one is available and in the
config file otherwise. The username is kept in the config file.
A classic token needs the repo and read:org scopes to list organization
repositories.
Environment variables (DAILY_GIT_TOKEN, GITHUB_TOKEN, DAILY_GIT_USERNAME)
take precedence over stored values.`,
		Example: `  daily-git config set token ghp_xxx
  daily-git config set username octocat`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := deps.configFile()
			if err != nil {
				return fmt.Errorf("failed to locate config file: %w", err)
			}
			where, err := config.Set(file, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s saved to %s\n", args[0], where)
			return nil
		},
	}
}

func newConfigShowCmd(deps dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := deps.configFile()
			if err != nil {
				return fmt.Errorf("failed to locate config file: %w", err)
			}
			cfg, err := config.Load(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config file: %s\n", file)
			fmt.Fprintf(out, "username: %s\n", orNotSet(cfg.Username))
			fmt.Fprintf(out, "token: %s\n", orNotSet(cfg.MaskedToken()))
			return nil
		},
	}
}

func orNotSet(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
