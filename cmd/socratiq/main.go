// Command socratiq serves the SocratIQ domain agents and the Sophie
// orchestrator over HTTP and MCP, and runs one-shot queries and ingestion.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sweetpotato0/socratiq/config"
	"github.com/sweetpotato0/socratiq/pkg/logging"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configFile string
	envFile    string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "socratiq",
	Short: "Pharmaceutical asset analysis with grounded domain agents",
	Long: `socratiq answers questions about a pharmaceutical asset. Four domain agents
(VERA mechanistic science, FINN finance, NORA legal and regulatory, CLIA
clinical) ground their answers in a document collection; Sophie routes a
question to the relevant agents and synthesizes one recommendation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnv(envFile); err != nil {
			return err
		}
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		// stdout carries command output and the stdio MCP stream.
		logging.SetLogger(logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before configuration")
}

// loadEnv loads path into the environment without overriding variables that
// are already set. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
