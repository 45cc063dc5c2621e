package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/rfm/backend/internal/s2_scoring"
)

var segmentsCode string

// segmentsCmd represents the segments command
var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "RF 점수 → 세그먼트 매핑 표 출력",
	Long: `recency_score(행) × frequency_score(열) 5×5 격자와 10개 세그먼트 규칙을 출력합니다.

Example:
  go run ./cmd/rfm segments
  go run ./cmd/rfm segments --code 51`,
	RunE: runSegments,
}

func init() {
	rootCmd.AddCommand(segmentsCmd)
	segmentsCmd.Flags().StringVar(&segmentsCode, "code", "", "classify a single RF_SCORE (e.g. 55)")
}

func runSegments(cmd *cobra.Command, args []string) error {
	if segmentsCode != "" {
		seg, err := s2_scoring.ClassifyCode(segmentsCode)
		if err != nil {
			return err
		}
		fmt.Printf("%s → %s\n", segmentsCode, seg)
		return nil
	}

	PrintHeader("RF Segment Grid (rows: recency_score, cols: frequency_score)")
	fmt.Printf("   %3s", "R\\F")
	for f := 1; f <= s2_scoring.Bins; f++ {
		fmt.Printf("  %-20d", f)
	}
	fmt.Println()

	for r := s2_scoring.Bins; r >= 1; r-- {
		fmt.Printf("   %3d", r)
		for f := 1; f <= s2_scoring.Bins; f++ {
			seg, err := s2_scoring.Classify(r, f)
			if err != nil {
				return err
			}
			fmt.Printf("  %-20s", seg)
		}
		fmt.Println()
	}

	PrintHeader("Rules")
	for _, rule := range s2_scoring.Rules() {
		PrintKeyValue(rule.Pattern, rule.Segment.String(), 10)
	}
	return nil
}
