package cmd

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose   bool
	logLevel  string
	logFormat string

	logger log.Logger = log.Root()
)

var rootCmd = &cobra.Command{
	Use:   "rvjtag",
	Short: "RISC-V JTAG debug transport decoder",
	Long: `Decode RISC-V Debug Transport Module traffic captured from a JTAG TAP.

Traces are line oriented records of TAP state changes and IR/DR shifts
(see "rvjtag decode --help"). The decoder follows the instruction register,
selects the matching register decoder and prints its annotations.

Examples:
  rvjtag simulate --out session.trace            # Record a simulated debug session
  rvjtag decode session.trace                    # Decode a captured trace
  rvjtag decode --channels command trace.txt     # Only print register summaries
  rvjtag registers --dmi                         # List the Debug Module registers`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if verbose && !cmd.Flags().Changed("log-level") {
			level = "debug"
		}
		lvl, err := parseLevel(level)
		if err != nil {
			return err
		}
		l, err := Logger(os.Stderr, lvl, logFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error, crit")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "terminal", "log format: terminal, logfmt, json")
}
