package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"neuronos/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use: "version",
		Short: "Print the NeuronOS version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("NeuronOS %s\n", version.String)
			return nil
		},
	}
}
