package main

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/expense-analyzer/cmd/categorize"
	"fjacquet/expense-analyzer/cmd/ingest"
	"fjacquet/expense-analyzer/cmd/root"
	"fjacquet/expense-analyzer/cmd/seed"

	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables before any command runs so API keys and
	// LOG_LEVEL from .env are visible to configuration loading.
	loadEnvSilently()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(seed.Cmd)
}

// loadEnvSilently loads a .env file without logging anything. Logging is not
// configured yet at this point.
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
