// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/daily-git/internal/config"
	"github.com/naka-gawa/daily-git/internal/gateway"
)

// defaultDays is the number of days reported when no argument is given.
const defaultDays = 1

// dependencies are the collaborators of the commands, replaced in tests.
type dependencies struct {
	configFile func() (string, error)
	newFetcher func(token string, logger logrus.FieldLogger) (gateway.Fetcher, error)
	now        func() time.Time
}

func defaultDependencies() dependencies {
	return dependencies{
		configFile: config.DefaultFile,
		newFetcher: gateway.NewGitHubGateway,
		now:        time.Now,
	}
}

var rootCmd = newRootCmd(defaultDependencies())

func newRootCmd(deps dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily-git [days]",
		Short: "Summarizes your own GitHub commits of the previous working day.",
		Long: `daily-git lists the commits you authored since the start of a previous
working day, across your personal and organization repositories, grouped by
repository and branch.

The optional argument selects how many days back the report starts (default 1).
A start day falling on a weekend is moved back to the preceding Friday.`,
		Example: `  daily-git
  daily-git 3
  daily-git config set username octocat`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaily(cmd, args, deps)
		},
	}
	// Add a persistent flag for verbose output, available to all commands.
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	cmd.AddCommand(newConfigCmd(deps))
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// parseDays reads the optional days argument.
func parseDays(args []string) (int, error) {
	if len(args) == 0 {
		return defaultDays, nil
	}
	days, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid days %q: must be a whole number", args[0])
	}
	if days < 0 {
		return 0, fmt.Errorf("invalid days %d: must not be negative", days)
	}
	return days, nil
}
