package cmd

import (
	"fmt"
	"os"

	"melisma/cache"
	"melisma/config"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Verify redis connectivity",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := cache.ConnectRedis(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "Redis check failed:", err)
			os.Exit(1)
		}
		defer cache.CloseRedis()

		if err := cache.TestRedis(); err != nil {
			fmt.Fprintln(os.Stderr, "Redis check failed:", err)
			os.Exit(1)
		}
		fmt.Println("Redis connection OK.")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
