// The mrambridge command simulates a serial-to-MRAM bridge board and runs
// memory operations and test patterns against it over the simulated
// serial link.
package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var rootCmd = &cobra.Command{
	Use:   "mrambridge",
	Short: "Cycle-accurate simulation of a serial-to-MRAM bridge board.",
	Long: `mrambridge simulates a board that exposes an AS3004316 MRAM chip ` +
		`over an asynchronous serial link. Subcommands drive the simulated ` +
		`board through single word accesses or whole memory test patterns.`,
}

func init() {
	// A .env file can preset any of the flags below through MRAMBRIDGE_*
	// variables. Absence of the file is not an error.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().Int(
		"freq-mhz", envInt("MRAMBRIDGE_FREQ_MHZ", 50),
		"board clock frequency in MHz")
	rootCmd.PersistentFlags().Int(
		"baud", envInt("MRAMBRIDGE_BAUD", 115200),
		"serial baud rate")
	rootCmd.PersistentFlags().Int(
		"timeout-bits", envInt("MRAMBRIDGE_TIMEOUT_BITS", 4096),
		"command frame timeout in bit periods, 0 to disable")
	rootCmd.PersistentFlags().String(
		"trace", os.Getenv("MRAMBRIDGE_TRACE"),
		"record commands and transactions into this SQLite database")
	rootCmd.PersistentFlags().Bool(
		"log-events", os.Getenv("MRAMBRIDGE_LOG_EVENTS") != "",
		"print every simulation event to stderr")
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
