package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// configCmd is the command to manage configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage the ajpbench configuration file.`,
}

// configShowCmd is the command to display configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration",
	Long:  `Display the ajpbench configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := Container.Config
		fmt.Println("ajpbench Configuration:")
		fmt.Printf("Timeout: %gs\n", c.Timeout)
		fmt.Printf("Rounds: %d\n", c.Rounds)
		fmt.Printf("HTTP Version: %s\n", c.HTTPVersion)
		fmt.Printf("Log Level: %s\n", c.LogLevel)
		fmt.Printf("Log File: %s\n", c.LogFile)
		fmt.Printf("History DB: %s\n", c.HistoryDB)
		fmt.Printf("Metrics File: %s\n", c.MetricsFile)
		fmt.Printf("Publish URL: %s\n", c.PublishURL)

		if len(c.DefaultHeaders) > 0 {
			names := make([]string, 0, len(c.DefaultHeaders))
			for name := range c.DefaultHeaders {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Println("\nDefault Headers:")
			for _, name := range names {
				fmt.Printf("  %s: %s\n", name, c.DefaultHeaders[name])
			}
		}
	},
}

// configSetCmd is the command to set configuration
var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set configuration",
	Long: `Set an ajpbench configuration key and save the file.
Keys: timeout, rounds, http_version, log_level, log_file, history_db,
metrics_file, publish_url, default_headers.<name> (an empty value removes it)
Examples:
  ajpbench config set timeout 2.5
  ajpbench config set history_db ~/.ajpbench/history.db
  ajpbench config set publish_url ws://collector:8080/results
  ajpbench config set default_headers.X-Probe ajpbench`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		if err := Container.ConfigService.Set(Container.Config, key, value); err != nil {
			exitWithError(1, err)
		}

		if err := Container.ConfigService.SaveConfig(Container.Config, ConfigPath); err != nil {
			exitWithError(1, fmt.Errorf("failed to save configuration: %v", err))
		}

		fmt.Printf("Configuration %s successfully changed to %s\n", key, value)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	RootCmd.AddCommand(configCmd)
}
