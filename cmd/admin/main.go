package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "resumeforge 运维工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSeedCommand(), newRenderCommand())

	if err := root.Execute(); err != nil {
		log.Fatalf("admin: %v", err)
	}
}
