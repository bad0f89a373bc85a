package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/chiplab/mrambridge/memtest"
	"github.com/chiplab/mrambridge/system"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fill a region with a pattern through the bridge and verify it.",
	Run: func(cmd *cobra.Command, args []string) {
		host := newHost(cmd)

		start, _ := cmd.Flags().GetUint32("start")
		count, _ := cmd.Flags().GetUint32("count")
		name, _ := cmd.Flags().GetString("pattern")

		pattern, ok := memtest.Patterns[name]
		if !ok {
			fmt.Printf("unknown pattern %q\n", name)
			atexit.Exit(1)
		}

		report, err := memtest.FillVerify(host, start, count, name, pattern)
		passed := printReport(report, err)
		printBoardStats(host.Board())

		if !passed {
			atexit.Exit(1)
		}
	},
}

var marchCmd = &cobra.Command{
	Use:   "march",
	Short: "Run the memory test algorithms over the simulated bridge.",
	Run: func(cmd *cobra.Command, args []string) {
		host := newHost(cmd)

		words, _ := cmd.Flags().GetUint32("words")
		bits, _ := cmd.Flags().GetBool("bits")

		suite := []func(memtest.Memory, uint32) (memtest.Report, error){
			memtest.MarchC,
			memtest.Checkerboard,
			memtest.AddressUniqueness,
		}
		if bits {
			suite = append(suite, memtest.WalkingOnes, memtest.WalkingZeros)
		}

		failed := false
		for _, test := range suite {
			report, err := test(host, words)
			if !printReport(report, err) {
				failed = true
			}
		}

		printBoardStats(host.Board())

		if failed {
			atexit.Exit(1)
		}
	},
}

func printReport(report memtest.Report, err error) bool {
	if err != nil {
		fmt.Printf("%s: aborted: %v\n", report.Test, err)
		return false
	}

	if !report.Passed() {
		fmt.Printf("%s: %d faults over %d words\n",
			report.Test, len(report.Faults), report.Words)

		for _, f := range report.Faults {
			fmt.Println("  " + f.String())
		}

		return false
	}

	fmt.Printf("%s: passed, %d words\n", report.Test, report.Words)

	return true
}

func printBoardStats(board *system.Comp) {
	fmt.Printf("simulated cycles: %d\n", board.Cycle())

	violations := board.Device().Violations()
	if len(violations) > 0 {
		fmt.Printf("timing violations: %d\n", len(violations))
		for _, v := range violations {
			fmt.Printf("  cycle %d, %s: %s\n", v.Cycle, v.Op, v.Reason)
		}
	}

	if n := board.Dispatcher().UnknownOpcodes(); n > 0 {
		fmt.Printf("unknown opcode bytes: %d\n", n)
	}
	if n := board.Dispatcher().Timeouts(); n > 0 {
		fmt.Printf("frame timeouts: %d\n", n)
	}
}

func init() {
	runCmd.Flags().Uint32("start", 0, "first word address")
	runCmd.Flags().Uint32("count", 256, "number of words")
	runCmd.Flags().String("pattern", "sequential",
		"fill pattern: sequential, aa55, or increment")

	marchCmd.Flags().Uint32("words", 256, "number of words to test")
	marchCmd.Flags().Bool("bits", false,
		"also walk a single one and zero through every data bit")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(marchCmd)
}
