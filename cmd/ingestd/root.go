package main

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "ingestd",
		Short: "Internship posting ingestion service",
		Long: `ingestd crawls registered job boards for internship postings,
classifies them, stores canonical jobs in Elasticsearch, and publishes
new-job events to Redis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yml)")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(runCommand())
}
