package s1_rfm

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/rfm/backend/internal/contracts"
	"github.com/wonny/rfm/backend/pkg/logger"
)

// Calculator implements S1: per-customer Recency, Frequency, Monetary
// ⭐ SSOT: RFM 지표 계산은 여기서만
type Calculator struct {
	analysisDate time.Time
	logger       *logger.Logger
}

// NewCalculator creates a calculator anchored at analysisDate
func NewCalculator(analysisDate time.Time, log *logger.Logger) *Calculator {
	if log == nil {
		log = logger.Nop()
	}
	return &Calculator{
		analysisDate: analysisDate,
		logger:       log.WithStage("S1"),
	}
}

type aggregate struct {
	lastOrder time.Time
	frequency int
	monetary  decimal.Decimal
}

// Calculate groups customers by ID and reduces each group:
// recency from the latest last_order_date, frequency and monetary as sums.
// Records come back sorted by customer ID.
func (c *Calculator) Calculate(customers []contracts.Customer) []contracts.RFMRecord {
	groups := make(map[string]*aggregate, len(customers))
	for i := range customers {
		cust := &customers[i]
		agg, ok := groups[cust.ID]
		if !ok {
			agg = &aggregate{lastOrder: cust.LastOrderDate, monetary: decimal.Zero}
			groups[cust.ID] = agg
		}
		if cust.LastOrderDate.After(agg.lastOrder) {
			agg.lastOrder = cust.LastOrderDate
		}
		agg.frequency += cust.TotalOfPurchases
		agg.monetary = agg.monetary.Add(cust.TotalExpenditure)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]contracts.RFMRecord, 0, len(ids))
	future := 0
	for _, id := range ids {
		agg := groups[id]
		recency := DaysBetween(agg.lastOrder, c.analysisDate)
		if recency < 0 {
			future++
		}
		records = append(records, contracts.RFMRecord{
			CustomerID: id,
			Recency:    recency,
			Frequency:  agg.frequency,
			Monetary:   agg.monetary,
		})
	}

	if future > 0 {
		// 기준일이 데이터보다 과거: 계산은 계속하되 경고만 남김
		c.logger.WithFields(map[string]interface{}{
			"customers":     future,
			"analysis_date": c.analysisDate.Format("2006-01-02"),
		}).Warn("Last order date after analysis date, recency is negative")
	}

	c.logger.WithFields(map[string]interface{}{
		"rows":      len(customers),
		"customers": len(records),
	}).Info("RFM metrics calculated")

	return records
}

// DaysBetween returns whole days from → to, floored like a timedelta's .days
func DaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}
