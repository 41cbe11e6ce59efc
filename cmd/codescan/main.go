package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/codescan/internal/version"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "codescan",
		Short: "codescan - AST-based duplication and complexity analyzer",
		Long: `codescan is a static analyzer that measures per-function complexity,
detects duplicated code across files, and scores overall maintainability.`,
		Version: Version,
	}

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(complexityCmd())
	rootCmd.AddCommand(clonesCmd())
	rootCmd.AddCommand(qualityCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		// Handle custom exit codes from check command
		if exitErr, ok := err.(*CheckExitError); ok {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			// Silently exit with the specified code (output already printed)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("codescan version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
