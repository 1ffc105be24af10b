package main

import (
	"github.com/spf13/cobra"
)

var configFile string

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zip-client",
		Short: "Web client for the zip code REST API",
		Long: `zip-client serves HTML pages for browsing and editing counties and
cities held by a remote zip code REST API, signing users in against it.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewVersionCmd prints build information.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("zip-client %s (commit: %s, built: %s)\n", version, commit, date)
			return nil
		},
	}
}
