package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajpbench/ajpbench-go-client/internal/infrastructure/report"
)

var (
	historyLimit  int
	historyFormat string
)

// historyCmd is the command to browse stored runs
var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show stored runs",
	Long: `List the runs stored in the history database, or print the records of
one run. Requires history_db in the configuration.
Examples:
  ajpbench history
  ajpbench history 4f0c1f7e-2a0b-4c8e-9d7a-0d5e6b1f2c3a --format json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if Container.Config.HistoryDB == "" {
			exitWithError(1, fmt.Errorf("history_db is not configured"))
		}
		if err := Container.InitProbe(); err != nil {
			exitWithError(1, err)
		}

		if len(args) == 1 {
			format, err := report.ParseFormat(historyFormat)
			if err != nil {
				exitWithError(1, err)
			}
			records, err := Container.ProbeService.RunResults(args[0])
			if err != nil {
				exitWithError(1, err)
			}
			if err := report.Write(os.Stdout, format, report.New(args[0], records)); err != nil {
				exitWithError(1, err)
			}
			return
		}

		runs, err := Container.ProbeService.History(historyLimit)
		if err != nil {
			exitWithError(1, err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs stored")
			return
		}
		for _, run := range runs {
			s := run.Summary
			fmt.Printf("%s  %s  requests=%d records=%d ok=%d timeout=%d failed=%d avg=%dms\n",
				run.ID, run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Requests,
				s.Count, s.Succeeded, s.TimedOut, s.Failed, s.Avg.Milliseconds())
		}
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyFormat, "format", "text", "Output format for a run: text, json or yaml")

	RootCmd.AddCommand(historyCmd)
}
