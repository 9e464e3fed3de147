package cmd

import (
	"melisma/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Melisma server",
	Long:  `Start the Melisma HTTP server: REST read API, DLNA browse/file surface and SSDP presence.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
