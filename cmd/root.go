package cmd

import (
	"fmt"
	"log"
	"os"

	"melisma/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "melisma",
	Short: "Melisma is a personal music-library server with a DLNA projection.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting Melisma server...")
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
