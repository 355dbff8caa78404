package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/osmcore/relareas/internal/config"
	"github.com/osmcore/relareas/internal/logger"
)

var (
	cfg             = config.DefaultConfig()
	verbose         bool
	logFile         string
	metricsInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "relareas",
	Short:         "Assembles OSM multipolygon relations into areas",
	SilenceErrors: true,
	Long: `relareas reads an OSM PBF extract in two passes and assembles
multipolygon/boundary relations into areas with outer and inner rings.

Features:
  - Streaming two-pass relation assembly (relations, then nodes/ways/relations)
  - A planar-sweep area assembler with self-intersection and unclosed-ring detection
  - Pluggable output sinks: PostgreSQL (PostGIS) or plain WKT`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg.Debug = verbose
		cfg.LogFile = logFile
		cfg.MetricsInterval = metricsInterval

		logger.Init(logger.Options{Debug: verbose, File: logFile})
	},
}

// Execute runs the CLI. On failure it logs the error through the
// configured logger and exits the process rather than letting cobra print
// to stderr.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		exitWithError("command failed", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "Number of parallel PBF decode workers (validated only; the PBF readers always start one decode worker per CPU)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file for persistent logging (JSON format)")
	rootCmd.PersistentFlags().DurationVar(&metricsInterval, "metrics-interval", 30*time.Second, "Interval for system metrics logging (e.g., 10s, 1m)")

	assembleCmd.Flags().StringVar(&cfg.LocationIndex, "location-index", cfg.LocationIndex, "Path for the scratch node-location mmap file")
	assembleCmd.Flags().IntVar(&cfg.OutputHighWater, "output-high-water", cfg.OutputHighWater, "Flush the output buffer after this many assembled areas")
	assembleCmd.Flags().BoolVar(&cfg.CollectProblems, "collect-problems", cfg.CollectProblems, "Record Problem entries for invalid areas instead of discarding them silently")
	assembleCmd.Flags().StringVar(&cfg.TagFilterFile, "tag-filter", cfg.TagFilterFile, "Path to a YAML tag filter restricting which relations are kept")
	assembleCmd.Flags().StringVar(&cfg.Sink, "sink", cfg.Sink, `Output sink: "postgres" or "wkt"`)
	assembleCmd.Flags().StringVar(&cfg.SinkDSN, "sink-dsn", cfg.SinkDSN, "Postgres connection string (required when --sink=postgres)")

	rootCmd.AddCommand(assembleCmd)
}

func exitWithError(msg string, err error) {
	log := logger.Get()
	if err != nil {
		log.Error(msg, zap.Error(err))
	} else {
		log.Error(msg)
	}
	os.Exit(1)
}
