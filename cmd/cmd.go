package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wenzapen/harvest/cmd/extractor"
	"github.com/wenzapen/harvest/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version",
	Long:  "print version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer(cmd.OutOrStdout())
	},
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "harvest",
		Short:         "extract structured records from HTML with rule trees",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(extractor.NewExtractCmd(), extractor.NewDebugCmd(), versionCmd)
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
