package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajpbench/ajpbench-go-client/internal/di"
)

var (
	// Container is the dependency injection container
	Container *di.Container

	// ConfigPath is the path to the configuration file
	ConfigPath string

	// LogLevel is the logging level
	LogLevel string

	// RootCmd is the root command for CLI
	RootCmd = &cobra.Command{
		Use:   "ajpbench",
		Short: "ajpbench - AJP13 client and load probe",
		Long: `ajpbench talks AJP13 directly to servlet containers such as Tomcat.
It sends GET and POST requests over persistent connections, measures every
round and reports the results, or checks a single URL Nagios style.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Container = di.NewContainer()

			if err := Container.Initialize(ConfigPath); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			// Flag wins over the configuration file
			if cmd.Flags().Changed("log-level") {
				Container.Logger.SetLevel(LogLevel)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if Container != nil {
				Container.Close()
			}
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// exitWithError prints err, releases the container and exits with code
func exitWithError(code int, err error) {
	fmt.Printf("Error: %v\n", err)
	if Container != nil {
		Container.Close()
	}
	os.Exit(code)
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "Path to configuration file (default: ~/.ajpbench/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "warn", "Set logging level (debug, info, warn, error)")
}
