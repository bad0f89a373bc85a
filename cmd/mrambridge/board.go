package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/chiplab/mrambridge/recording"
	"github.com/chiplab/mrambridge/sim"
	"github.com/chiplab/mrambridge/system"
)

// newHost builds a board and its host endpoint from the persistent flags.
func newHost(cmd *cobra.Command) *system.Host {
	freqMHz, _ := cmd.Flags().GetInt("freq-mhz")
	baud, _ := cmd.Flags().GetInt("baud")
	timeoutBits, _ := cmd.Flags().GetInt("timeout-bits")
	trace, _ := cmd.Flags().GetString("trace")
	logEvents, _ := cmd.Flags().GetBool("log-events")

	engine := sim.NewSerialEngine()
	if logEvents {
		engine.AcceptHook(sim.NewEventLogger(log.New(os.Stderr, "", 0)))
	}
	board := system.MakeBuilder().
		WithEngine(engine).
		WithFreq(sim.Freq(freqMHz) * sim.MHz).
		WithBaudRate(baud).
		WithFrameTimeoutBits(timeoutBits).
		Build("Board")

	if trace != "" {
		recorder := recording.NewRecorder(trace)
		recording.NewSystemTracer(recorder, board).Attach()
	}

	return system.NewHost(engine, board)
}
