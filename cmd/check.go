package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/service"
)

var (
	checkFlags             requestFlags
	checkThresholdWarning  int64
	checkThresholdCritical int64
)

// checkCmd is the Nagios plugin command
var checkCmd = &cobra.Command{
	Use:   "check [flags] url",
	Short: "Check one URL as a Nagios plugin",
	Long: `Send a single AJP13 request and print a Nagios plugin status line with
performance data. Exit codes: 0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN.
A status other than 200 is CRITICAL.
Examples:
  ajpbench check --threshold-warning 500 --threshold-critical 2000 http://app:8009/health`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		checker := service.NewCheckService(service.Thresholds{
			Warning:  time.Duration(checkThresholdWarning) * time.Millisecond,
			Critical: time.Duration(checkThresholdCritical) * time.Millisecond,
		})
		result := runCheck(cmd, args[0], checker)

		fmt.Println(result.Line)
		Container.Close()
		os.Exit(int(result.Status))
	},
}

func runCheck(cmd *cobra.Command, url string, checker service.CheckService) service.CheckResult {
	checkFlags.applyConfig(Container.Config, cmd.Flags().Changed)
	// a check is always a single round
	Container.Config.Rounds = 1

	set, err := checkFlags.requestSet([]string{url}, Container.Config, Container.ConfigService.LoadRequests)
	if err != nil {
		return checker.Unknown(err)
	}
	if err := Container.InitProbe(); err != nil {
		return checker.Unknown(err)
	}

	result, err := Container.ProbeService.Run(context.Background(), set)
	if err != nil && (errors.Is(err, model.ErrConfiguration) || result == nil) {
		return checker.Unknown(err)
	}
	return checker.Evaluate(result.Records, Container.Config.HTTPVersion)
}

func init() {
	addRequestFlags(checkCmd, &checkFlags)
	checkCmd.Flags().Int64Var(&checkThresholdWarning, "threshold-warning", 0, "Warning threshold in milliseconds")
	checkCmd.Flags().Int64Var(&checkThresholdCritical, "threshold-critical", 0, "Critical threshold in milliseconds")

	RootCmd.AddCommand(checkCmd)
}
