package main

import (
	"fmt"
	"os"

	"freeswitch-admin-console/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file when present
	_ = godotenv.Load()

	rootCmd := NewRootCMD(os.Stdout, os.Stderr, config.Load)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
