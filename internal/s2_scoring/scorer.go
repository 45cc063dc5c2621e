package s2_scoring

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wonny/rfm/backend/internal/contracts"
	"github.com/wonny/rfm/backend/pkg/logger"
)

// Bins is the number of quantile buckets per metric
const Bins = 5

var (
	ascendingLabels  = []int{1, 2, 3, 4, 5}
	descendingLabels = []int{5, 4, 3, 2, 1} // 최근일수록(값이 작을수록) 높은 점수
)

// Scorer implements S2: quintile scores and RF segment
// ⭐ SSOT: 점수화 및 세그먼트 부여는 여기서만
type Scorer struct {
	logger *logger.Logger
}

// NewScorer creates a new scorer
func NewScorer(log *logger.Logger) *Scorer {
	if log == nil {
		log = logger.Nop()
	}
	return &Scorer{logger: log.WithStage("S2")}
}

// Score bins every metric over the full population passed in and assigns
// RF_SCORE and segment. Output order follows records.
func (s *Scorer) Score(records []contracts.RFMRecord) ([]contracts.ScoredCustomer, error) {
	n := len(records)
	recency := make([]decimal.Decimal, n)
	frequency := make([]int, n)
	monetary := make([]decimal.Decimal, n)
	for i, r := range records {
		recency[i] = decimal.NewFromInt(int64(r.Recency))
		frequency[i] = r.Frequency
		monetary[i] = r.Monetary
	}

	recencyScores, err := QuantileCut(recency, descendingLabels)
	if err != nil {
		return nil, fmt.Errorf("recency: %w", err)
	}

	// frequency 값은 중복이 많아 먼저 등장 순서로 순위를 매긴 뒤 구간화
	frequencyScores, err := QuantileCut(intsToDecimals(RankFirst(frequency)), ascendingLabels)
	if err != nil {
		return nil, fmt.Errorf("frequency: %w", err)
	}

	monetaryScores, err := QuantileCut(monetary, ascendingLabels)
	if err != nil {
		return nil, fmt.Errorf("monetary: %w", err)
	}

	scored := make([]contracts.ScoredCustomer, n)
	counts := make(map[contracts.Segment]int)
	for i, r := range records {
		segment, err := Classify(recencyScores[i], frequencyScores[i])
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", r.CustomerID, err)
		}
		scored[i] = contracts.ScoredCustomer{
			RFMRecord:      r,
			RecencyScore:   recencyScores[i],
			FrequencyScore: frequencyScores[i],
			MonetaryScore:  monetaryScores[i],
			RFScore:        contracts.RFScoreOf(recencyScores[i], frequencyScores[i]),
			Segment:        segment,
		}
		counts[segment]++
	}

	fields := map[string]interface{}{"customers": n}
	for seg, c := range counts {
		fields[string(seg)] = c
	}
	s.logger.WithFields(fields).Info("Customers scored and segmented")

	return scored, nil
}
