package report

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/wonny/rfm/backend/internal/contracts"
	"github.com/wonny/rfm/backend/internal/s2_scoring"
)

// Stats is a count/mean/std/min/quartiles/max row for one metric
type Stats struct {
	Metric string          `json:"metric"`
	Count  int             `json:"count"`
	Mean   decimal.Decimal `json:"mean"`
	Std    decimal.Decimal `json:"std"` // sample std (n-1)
	Min    decimal.Decimal `json:"min"`
	P25    decimal.Decimal `json:"25%"`
	P50    decimal.Decimal `json:"50%"`
	P75    decimal.Decimal `json:"75%"`
	Max    decimal.Decimal `json:"max"`
}

// Describe summarizes recency, frequency and monetary over the records
func Describe(records []contracts.RFMRecord) []Stats {
	recency := make([]decimal.Decimal, len(records))
	frequency := make([]decimal.Decimal, len(records))
	monetary := make([]decimal.Decimal, len(records))
	for i, r := range records {
		recency[i] = decimal.NewFromInt(int64(r.Recency))
		frequency[i] = decimal.NewFromInt(int64(r.Frequency))
		monetary[i] = r.Monetary
	}

	return []Stats{
		DescribeValues("recency", recency),
		DescribeValues("frequency", frequency),
		DescribeValues("monetary", monetary),
	}
}

// DescribeRaw summarizes the four raw order-count and value columns
func DescribeRaw(customers []contracts.Customer) []Stats {
	online := make([]decimal.Decimal, len(customers))
	offline := make([]decimal.Decimal, len(customers))
	valueOffline := make([]decimal.Decimal, len(customers))
	valueOnline := make([]decimal.Decimal, len(customers))
	for i := range customers {
		c := &customers[i]
		online[i] = decimal.NewFromInt(int64(c.OrderNumOnline))
		offline[i] = decimal.NewFromInt(int64(c.OrderNumOffline))
		valueOffline[i] = c.ValueOffline
		valueOnline[i] = c.ValueOnline
	}

	return []Stats{
		DescribeValues("order_num_total_ever_online", online),
		DescribeValues("order_num_total_ever_offline", offline),
		DescribeValues("customer_value_total_ever_offline", valueOffline),
		DescribeValues("customer_value_total_ever_online", valueOnline),
	}
}

// DescribeValues computes Stats over values; an empty input yields Count 0
func DescribeValues(metric string, values []decimal.Decimal) Stats {
	st := Stats{Metric: metric, Count: len(values)}
	if len(values) == 0 {
		return st
	}

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	n := decimal.NewFromInt(int64(len(values)))
	st.Mean = sum.Div(n)

	if len(values) > 1 {
		ss := decimal.Zero
		for _, v := range values {
			d := v.Sub(st.Mean)
			ss = ss.Add(d.Mul(d))
		}
		variance := ss.Div(n.Sub(decimal.NewFromInt(1)))
		// decimal 에는 Sqrt 가 없어 float 로 계산
		st.Std = decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
	}

	quartiles := s2_scoring.QuantileEdges(values, 4)
	st.Min, st.P25, st.P50, st.P75, st.Max = quartiles[0], quartiles[1], quartiles[2], quartiles[3], quartiles[4]
	return st
}
