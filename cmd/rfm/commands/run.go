package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/rfm/backend/internal/campaign"
	"github.com/wonny/rfm/backend/internal/contracts"
	"github.com/wonny/rfm/backend/internal/pipeline"
	"github.com/wonny/rfm/backend/internal/s3_selection"
	"github.com/wonny/rfm/backend/pkg/config"
	"github.com/wonny/rfm/backend/pkg/database"
)

var (
	runInput     string
	runOutputDir string
	runDate      string
	runCampaigns string
	runPersist   bool
	runID        string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "전체 파이프라인 실행 (S0 → S3)",
	Long: `입력 CSV 를 읽어 RFM 점수와 세그먼트를 계산하고 캠페인별 대상 CSV 를 내보냅니다.

단계:
- S0: 입력 로드, 필수 컬럼 검증, 합계/날짜 준비
- S1: 고객별 Recency / Frequency / Monetary
- S2: 5분위 점수, RF_SCORE, 세그먼트
- S3: 캠페인 대상 추출 및 CSV 저장
- (옵션) PostgreSQL 에 점수와 캠페인 대상 저장

플래그가 환경변수(INPUT_PATH, OUTPUT_DIR, ANALYSIS_DATE, CAMPAIGNS_PATH,
PERSIST_RESULTS)보다 우선합니다.

Example:
  go run ./cmd/rfm run
  go run ./cmd/rfm run --input flo_data_20k.csv --output-dir out --date 2021-06-02
  go run ./cmd/rfm run --campaigns config/campaigns.yaml --persist`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runInput, "input", "", "input CSV (default INPUT_PATH)")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "directory for campaign CSVs (default OUTPUT_DIR)")
	runCmd.Flags().StringVar(&runDate, "date", "", "analysis date YYYY-MM-DD (default ANALYSIS_DATE)")
	runCmd.Flags().StringVar(&runCampaigns, "campaigns", "", "campaign YAML (default CAMPAIGNS_PATH or built-in)")
	runCmd.Flags().BoolVar(&runPersist, "persist", false, "save scores and campaign members to PostgreSQL")
	runCmd.Flags().StringVar(&runID, "run-id", "", "run UUID (default generated)")
}

// applyAnalysisFlags overrides config values with non-empty flags
func applyAnalysisFlags(cfg *config.Config, input, date string) error {
	if input != "" {
		cfg.Analysis.InputPath = input
	}
	if date != "" {
		d, err := config.ParseDate(date)
		if err != nil {
			return err
		}
		cfg.Analysis.Date = d
	}
	return nil
}

// applyRunFlags applies the run flags, then checks persistence against
// the final settings so --persist=false overrides PERSIST_RESULTS
func applyRunFlags(cfg *config.Config, persistSet bool) error {
	if err := applyAnalysisFlags(cfg, runInput, runDate); err != nil {
		return err
	}
	if runOutputDir != "" {
		cfg.Analysis.OutputDir = runOutputDir
	}
	if runCampaigns != "" {
		cfg.Analysis.CampaignsPath = runCampaigns
	}
	if persistSet {
		cfg.Analysis.Persist = runPersist
	}
	return cfg.ValidatePersist()
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyRunFlags(cfg, cmd.Flags().Changed("persist")); err != nil {
		return err
	}

	log := newLogger(cfg)

	campaigns, err := campaign.LoadOrDefault(cfg.Analysis.CampaignsPath)
	if err != nil {
		return fmt.Errorf("load campaigns: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var store pipeline.Store
	if cfg.Analysis.Persist {
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		store = s3_selection.NewRepository(db.Pool)
	}

	orchestrator := pipeline.NewOrchestrator(store, log)
	result, err := orchestrator.Run(ctx, pipeline.RunConfig{
		RunID:        runID,
		AnalysisDate: cfg.Analysis.Date,
		InputPath:    cfg.Analysis.InputPath,
		OutputDir:    cfg.Analysis.OutputDir,
		Campaigns:    campaigns,
		Persist:      cfg.Analysis.Persist,
	})
	if err != nil {
		return err
	}

	printRunResult(result)
	return nil
}

func printRunResult(result *pipeline.RunResult) {
	PrintHeader("RFM Segmentation Run")
	PrintKeyValue("Run ID", result.RunID, 14)
	PrintKeyValue("Analysis date", result.AnalysisDate.Format(config.DateLayout), 14)
	PrintKeyValue("Campaigns", result.CampaignsHash[:12], 14)
	PrintKeyValue("Customers", strconv.Itoa(len(result.Analysis.Scored)), 14)
	PrintSeparator()

	for _, st := range result.Stages {
		fmt.Printf("   %-3s %-16s %7d → %-7d %5dms\n",
			st.Stage.ShortName(), st.Stage.Description(), st.InputCount, st.OutputCount, st.Duration)
	}
	PrintSeparator()

	counts := result.Analysis.SegmentCounts()
	segments := make([]contracts.Segment, 0, len(counts))
	for seg := range counts {
		segments = append(segments, seg)
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i] < segments[j] })
	for _, seg := range segments {
		fmt.Printf("   %-20s %7d\n", seg, counts[seg])
	}
	PrintSeparator()

	for _, e := range result.Exports {
		if e.Rows == 0 {
			PrintWarning(fmt.Sprintf("%s: no customers selected, wrote header only (%s)", e.Campaign, e.Path))
			continue
		}
		PrintSuccess(fmt.Sprintf("%s: %d rows → %s", e.Campaign, e.Rows, e.Path))
	}
	if result.Persisted {
		PrintSuccess("Results saved to PostgreSQL")
	}

	PrintCompletion(result.RunID, result.Duration)
}
