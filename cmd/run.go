package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajpbench/ajpbench-go-client/internal/infrastructure/report"
)

var (
	runFlags  requestFlags
	runOutput string
	runFormat string
)

// runCmd is the command to send requests and report every round
var runCmd = &cobra.Command{
	Use:   "run [flags] url...",
	Short: "Send AJP13 requests and report every round",
	Long: `Send one request session per URL concurrently and report every round.
The port of each URL is the AJP connector port; a URL without port, or with
the scheme's default port, uses 8009.
Examples:
  ajpbench run http://localhost/examples/
  ajpbench run --rounds 10 -T 2.5 http://app:8009/a http://app:8009/b
  ajpbench run -m POST --query "name:ajp\lang:go" http://app:8009/form
  ajpbench run -r requests.yaml -o results.json --format json`,
	Run: func(cmd *cobra.Command, args []string) {
		runFlags.applyConfig(Container.Config, cmd.Flags().Changed)

		format, err := report.ParseFormat(runFormat)
		if err != nil {
			exitWithError(1, err)
		}
		set, err := runFlags.requestSet(args, Container.Config, Container.ConfigService.LoadRequests)
		if err != nil {
			exitWithError(1, err)
		}
		if err := Container.InitProbe(); err != nil {
			exitWithError(1, err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := Container.ProbeService.Run(ctx, set)
		if err != nil && result == nil {
			exitWithError(1, err)
		}
		if err != nil {
			Container.Logger.Error("Run finished with error: %v", err)
		}

		out, closeOut := openOutput(runOutput)
		defer closeOut()
		if err := report.Write(out, format, report.New(result.Run.ID, result.Records)); err != nil {
			exitWithError(1, err)
		}

		if err := Container.WriteMetrics(); err != nil {
			Container.Logger.Error("%v", err)
		}
	},
}

// openOutput opens path for writing; "-" and "" select stdout. A file that
// cannot be created also falls back to stdout.
func openOutput(path string) (io.Writer, func()) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Printf("Failed opening output file %s, writing to the console: %v\n", path, err)
		return os.Stdout, func() {}
	}
	return f, func() { f.Close() }
}

func init() {
	addRequestFlags(runCmd, &runFlags)
	runCmd.Flags().IntVar(&runFlags.rounds, "rounds", 1, "Number of rounds per URL")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "-", "Output file, - for the console")
	runCmd.Flags().StringVar(&runFormat, "format", "text", "Output format: text, json or yaml")

	RootCmd.AddCommand(runCmd)
}
