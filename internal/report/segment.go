package report

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/rfm/backend/internal/contracts"
)

// SegmentRow is the mean and count of R, F and M within one segment
type SegmentRow struct {
	Segment       contracts.Segment `json:"segment"`
	Count         int               `json:"count"`
	RecencyMean   decimal.Decimal   `json:"recency_mean"`
	FrequencyMean decimal.Decimal   `json:"frequency_mean"`
	MonetaryMean  decimal.Decimal   `json:"monetary_mean"`
}

// SegmentSummary aggregates scored customers per segment. Rows follow
// alphabetical segment order and segments with no customers are omitted.
func SegmentSummary(scored []contracts.ScoredCustomer) []SegmentRow {
	type acc struct {
		n                  int
		recency, frequency int64
		monetary           decimal.Decimal
	}
	bySegment := make(map[contracts.Segment]*acc)
	for _, sc := range scored {
		a, ok := bySegment[sc.Segment]
		if !ok {
			a = &acc{}
			bySegment[sc.Segment] = a
		}
		a.n++
		a.recency += int64(sc.Recency)
		a.frequency += int64(sc.Frequency)
		a.monetary = a.monetary.Add(sc.Monetary)
	}

	rows := make([]SegmentRow, 0, len(bySegment))
	for _, seg := range sortedSegments() {
		a, ok := bySegment[seg]
		if !ok {
			continue
		}
		n := decimal.NewFromInt(int64(a.n))
		rows = append(rows, SegmentRow{
			Segment:       seg,
			Count:         a.n,
			RecencyMean:   decimal.NewFromInt(a.recency).Div(n),
			FrequencyMean: decimal.NewFromInt(a.frequency).Div(n),
			MonetaryMean:  a.monetary.Div(n),
		})
	}
	return rows
}

// groupby 결과와 같은 알파벳 순서
func sortedSegments() []contracts.Segment {
	return []contracts.Segment{
		contracts.SegmentAboutToSleep,
		contracts.SegmentAtRisk,
		contracts.SegmentCantLoose,
		contracts.SegmentChampions,
		contracts.SegmentHibernating,
		contracts.SegmentLoyalCustomers,
		contracts.SegmentNeedAttention,
		contracts.SegmentNewCustomers,
		contracts.SegmentPotentialLoyalists,
		contracts.SegmentPromising,
	}
}
