package cmd

import (
	"fmt"
	"os"

	"melisma/config"
	"melisma/logger"
	"melisma/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Verify object-storage connectivity",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		if err := storage.InitMinio(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "MinIO check failed:", err)
			os.Exit(1)
		}
		fmt.Println("MinIO connection OK.")
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
}
