package main

import (
	"github.com/spf13/cobra"

	"neuronos/internal/hwprobe"
)

func newHWInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use: "hwinfo",
		Short: "Detect and print the local hardware profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			printHWInfo(hwprobe.Detect())
			return nil
		},
	}
}
