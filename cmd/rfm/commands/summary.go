package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/rfm/backend/internal/pipeline"
	"github.com/wonny/rfm/backend/internal/report"
)

var (
	summaryInput string
	summaryDate  string
	summaryTop   int
	summaryBy    string
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "채널/상위 고객/RFM/세그먼트 요약 리포트",
	Long: `S0 → S2 를 실행하고 CSV 를 쓰지 않은 채 요약 리포트를 출력합니다.

출력 항목:
- 주문 채널별 고객 수, 총 구매 수, 총 지출
- 지출/구매 기준 상위 N 고객
- recency / frequency / monetary 기술 통계
- 세그먼트별 R, F, M 평균과 고객 수

Example:
  go run ./cmd/rfm summary
  go run ./cmd/rfm summary --top 5 --by purchases`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryInput, "input", "", "input CSV (default INPUT_PATH)")
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "analysis date YYYY-MM-DD (default ANALYSIS_DATE)")
	summaryCmd.Flags().IntVar(&summaryTop, "top", 10, "number of top customers")
	summaryCmd.Flags().StringVar(&summaryBy, "by", "", "rank top customers by expenditure|purchases (default both)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyAnalysisFlags(cfg, summaryInput, summaryDate); err != nil {
		return err
	}

	rankings := []report.RankBy{report.ByExpenditure, report.ByPurchases}
	if summaryBy != "" {
		by, err := report.ParseRankBy(summaryBy)
		if err != nil {
			return err
		}
		rankings = []report.RankBy{by}
	}

	orchestrator := pipeline.NewOrchestrator(nil, newLogger(cfg))
	analysis, err := orchestrator.Analyze(context.Background(), cfg.Analysis.InputPath, cfg.Analysis.Date)
	if err != nil {
		return err
	}

	tables := []*report.Table{report.ChannelTable(report.ChannelSummary(analysis.Customers))}
	for _, by := range rankings {
		tables = append(tables, report.TopTable(by, report.TopCustomers(analysis.Customers, by, summaryTop)))
	}
	tables = append(tables,
		report.DescribeTable(report.Describe(analysis.Records)),
		report.SegmentTable(report.SegmentSummary(analysis.Scored)),
	)

	return report.Render(os.Stdout, tables...)
}
