package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "times",
	Short: "A Slack slash-command bot for personal time tracking",
	Long: `times is the server behind the /times Slack command. Type a task name to
start working on it, type another to switch, and "clock out" to end the day
and get a per-task tally. Clocking out also links a web report of the last
week, month and half-year.`,
}

// Execute runs the root command with the build's version information.
func Execute(v, c, d string) error {
	version, commit, date = v, c, d
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("times %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
