package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/chiplab/mrambridge/mram"
)

var peekCmd = &cobra.Command{
	Use:   "peek <addr>",
	Short: "Read one 16-bit word through the bridge.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		host := newHost(cmd)

		addr := parseAddr(args[0])
		data, err := host.ReadWord(addr)
		if err != nil {
			fmt.Println(err)
			atexit.Exit(1)
		}

		fmt.Printf("0x%05X: 0x%04X\n", addr, data)
	},
}

var pokeCmd = &cobra.Command{
	Use:   "poke <addr> <value>",
	Short: "Write one 16-bit word through the bridge.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		host := newHost(cmd)

		addr := parseAddr(args[0])
		value, err := strconv.ParseUint(args[1], 0, 16)
		if err != nil {
			fmt.Printf("invalid value %q: %v\n", args[1], err)
			atexit.Exit(1)
		}

		if err := host.WriteWord(addr, uint16(value)); err != nil {
			fmt.Println(err)
			atexit.Exit(1)
		}

		fmt.Printf("0x%05X <- 0x%04X\n", addr, uint16(value))
	},
}

func parseAddr(s string) uint32 {
	addr, err := strconv.ParseUint(s, 0, 32)
	if err != nil || addr >= mram.NumWords {
		fmt.Printf("invalid address %q\n", s)
		atexit.Exit(1)
	}

	return uint32(addr)
}

func init() {
	rootCmd.AddCommand(peekCmd)
	rootCmd.AddCommand(pokeCmd)
}
