package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/config"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/storage"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "legis",
	Short: "Legislative voting-consistency analytics",
	Long: `legis ingests congressional voting data, scores member
voting consistency and party unity, and serves the resulting analytics
over HTTP.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`legis {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(statusCmd)
}

// openStore creates the configured record store backend.
func openStore() (storage.Store, error) {
	switch cfg.Storage.Type {
	case "bolt":
		return storage.NewBoltStore(cfg.Storage.BoltPath, logger)
	case "file", "":
		return storage.NewFileStore(cfg.Storage.DataDir, logger)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}
