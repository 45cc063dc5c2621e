package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/rfm/backend/pkg/config"
	"github.com/wonny/rfm/backend/pkg/logger"
)

var (
	// Global flags
	configFile string
	verbose    bool
	jsonLogs   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rfm",
	Short: "FLO RFM 고객 세그멘테이션",
	Long: `RFM Customer Segmentation CLI

고객 주문 데이터(flo_data_20k.csv)를 Recency / Frequency / Monetary 로 점수화하고
10개 마케팅 세그먼트로 분류한 뒤 캠페인 대상 CSV 를 내보냅니다.
4단계 파이프라인: S0 Data → S1 RFM → S2 Scoring → S3 Selection.

Usage:
  go run ./cmd/rfm [command]

Examples:
  go run ./cmd/rfm run --input flo_data_20k.csv --output-dir out
  go run ./cmd/rfm summary --top 10
  go run ./cmd/rfm segments
  go run ./cmd/rfm check-data
  go run ./cmd/rfm test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file to load before the environment (default: .env lookup)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "write logs as JSON")
}

// loadConfig loads configuration and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFile(configFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if jsonLogs {
		cfg.LogFormat = "json"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(cfg)
}
