package cmd

import (
	"context"
	"fmt"
	"os"

	"melisma/config"
	"melisma/core/scan"
	"melisma/db"
	"melisma/logger"
	"melisma/storage"

	"github.com/spf13/cobra"
)

var importSkipUpload bool

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import audio files into the library",
	Long:  `Walk a directory, read audio tags and create artist/release/track rows. Audio bytes are uploaded to object storage unless --skip-upload is set.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		if err := db.ConnectDB(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "failed to connect to database:", err)
			os.Exit(1)
		}
		defer db.DB.Close()

		if err := db.InitDB(); err != nil {
			fmt.Fprintln(os.Stderr, "failed to initialize database:", err)
			os.Exit(1)
		}

		if err := db.ConnectGormDB(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "failed to connect GORM:", err)
			os.Exit(1)
		}
		defer db.CloseGormDB()

		scanner := scan.NewScanner(db.GormDB, nil, cfg.MinioBucket)
		if !importSkipUpload {
			if err := storage.InitMinio(cfg); err != nil {
				fmt.Fprintln(os.Stderr, "failed to initialize MinIO:", err)
				os.Exit(1)
			}
			scanner = scan.NewScanner(db.GormDB, storage.GetMinioClient(), cfg.MinioBucket)
		}

		imported, err := scanner.ImportDir(context.Background(), args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "import failed:", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d tracks.\n", imported)
	},
}

func init() {
	importCmd.Flags().BoolVar(&importSkipUpload, "skip-upload", false, "import metadata only, do not upload audio to object storage")
	rootCmd.AddCommand(importCmd)
}
