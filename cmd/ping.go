package cmd

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

var pingCount int

// pingCmd is the command to probe a container with CPing
var pingCmd = &cobra.Command{
	Use:   "ping host[:port]",
	Short: "Probe an AJP connector with CPing",
	Long: `Send CPing messages over one connection and wait for CPong.
The port defaults to 8009.
Examples:
  ajpbench ping localhost
  ajpbench ping -n 5 app.internal:8010`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("timeout") || Container.Config.Timeout == 0 {
			Container.Config.Timeout = pingTimeout
		}
		endpoint, err := parseEndpoint(args[0])
		if err != nil {
			exitWithError(1, err)
		}
		if err := Container.InitProbe(); err != nil {
			exitWithError(1, err)
		}

		failed := 0
		for _, r := range Container.ProbeService.Ping(context.Background(), endpoint, pingCount) {
			if !r.Succeeded() {
				failed++
				fmt.Printf("%s: %s\n", endpoint, r.Error)
				continue
			}
			fmt.Printf("CPONG from %s: seq=%d time=%.3f ms\n", endpoint, r.Round, float64(r.Elapsed.Microseconds())/1000)
		}
		if failed > 0 {
			exitWithError(1, fmt.Errorf("%d of %d ping(s) failed", failed, pingCount))
		}
	},
}

var pingTimeout float64

func parseEndpoint(s string) (model.Endpoint, error) {
	host, portText, err := net.SplitHostPort(s)
	if err != nil {
		// no port given
		return model.Endpoint{Host: s, Port: model.DefaultAJPPort}, nil
	}
	port, err := strconv.Atoi(portText)
	if err != nil || port <= 0 || port > 65535 {
		return model.Endpoint{}, model.Configurationf("invalid port %q", portText)
	}
	return model.Endpoint{Host: host, Port: port}, nil
}

func init() {
	pingCmd.Flags().IntVarP(&pingCount, "count", "n", 1, "Number of pings")
	pingCmd.Flags().Float64VarP(&pingTimeout, "timeout", "T", 5, "Read timeout in seconds")

	RootCmd.AddCommand(pingCmd)
}
