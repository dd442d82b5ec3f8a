package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Grounded question answering over uploaded documents",
	Long: `docqa ingests uploaded documents into per-session vector indexes and
answers questions from the retrieved evidence only, with citations back
to the chunks that justified each answer.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
