package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/rfm/backend/internal/report"
	"github.com/wonny/rfm/backend/internal/s0_data"
)

var checkDataInput string

// checkDataCmd represents the check-data command
var checkDataCmd = &cobra.Command{
	Use:   "check-data",
	Short: "입력 CSV 데이터 상태 확인",
	Long: `입력 CSV 의 상태를 확인합니다.

확인 항목:
- 행 수, 컬럼별 결측/고유값 수
- 필수 컬럼 존재 여부
- order_channel / last_order_channel 분포, Omnichannel 라벨 여부
- 전체 행 준비(타입 변환) 가능 여부
- 주문 수/금액 원본 컬럼 통계, 채널별 옴니채널 고객 수

Example:
  go run ./cmd/rfm check-data
  go run ./cmd/rfm check-data --input flo_data_20k.csv`,
	RunE: runCheckData,
}

func init() {
	rootCmd.AddCommand(checkDataCmd)
	checkDataCmd.Flags().StringVar(&checkDataInput, "input", "", "input CSV (default INPUT_PATH)")
}

func runCheckData(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyAnalysisFlags(cfg, checkDataInput, ""); err != nil {
		return err
	}

	table, err := s0_data.ReadTable(cfg.Analysis.InputPath)
	if err != nil {
		return err
	}
	profile := s0_data.ProfileTable(table)

	PrintHeader(fmt.Sprintf("Data Check: %s", cfg.Analysis.InputPath))
	fmt.Printf("   Rows: %d, Columns: %d\n", profile.Rows, len(profile.Columns))
	PrintSeparator()

	fmt.Printf("   %-36s %8s %10s\n", "column", "nulls", "distinct")
	for _, col := range profile.Columns {
		fmt.Printf("   %-36s %8d %10d\n", col.Name, col.Nulls, col.Distinct)
	}
	PrintSeparator()

	if len(profile.OrderChannels) > 0 {
		printValueCounts(s0_data.ColOrderChannel, profile.OrderChannels)
		fmt.Printf("   Omnichannel rows: %d\n", profile.OmnichannelRows)
		PrintSeparator()
	}
	if len(profile.LastOrderChannels) > 0 {
		printValueCounts(s0_data.ColLastOrderChannel, profile.LastOrderChannels)
		PrintSeparator()
	}

	if err := table.Require(s0_data.RequiredColumns()...); err != nil {
		PrintWarning(err.Error())
		return err
	}
	PrintSuccess("All required columns present")

	customers, err := s0_data.Prepare(table)
	if err != nil {
		PrintWarning(err.Error())
		return err
	}
	PrintSuccess(fmt.Sprintf("%d rows prepared", len(customers)))
	PrintSeparator()

	raw := report.DescribeTable(report.DescribeRaw(customers))
	raw.Title = "Raw columns"
	return report.Render(os.Stdout, raw, report.ChannelTable(report.ChannelSummary(customers)))
}

func printValueCounts(column string, counts []s0_data.ValueCount) {
	fmt.Printf("   %s:\n", column)
	for _, vc := range counts {
		fmt.Printf("     %-20s %8d\n", vc.Value, vc.Count)
	}
}
