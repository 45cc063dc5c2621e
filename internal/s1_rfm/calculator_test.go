package s1_rfm

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rfm/backend/internal/contracts"
)

var analysisDate = time.Date(2021, 6, 2, 0, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func customer(id string, last time.Time, purchases int, spend string) contracts.Customer {
	return contracts.Customer{
		ID:               id,
		LastOrderDate:    last,
		TotalOfPurchases: purchases,
		TotalExpenditure: decimal.RequireFromString(spend),
	}
}

func TestCalculator_Calculate(t *testing.T) {
	calc := NewCalculator(analysisDate, nil)

	records := calc.Calculate([]contracts.Customer{
		customer("b", day(2021, 5, 30), 5, "939.37"),
		customer("a", day(2021, 6, 2), 2, "100.10"),
	})
	require.Len(t, records, 2)

	// sorted by customer id
	assert.Equal(t, "a", records[0].CustomerID)
	assert.Equal(t, 0, records[0].Recency, "last order on the analysis date")
	assert.Equal(t, 2, records[0].Frequency)

	assert.Equal(t, "b", records[1].CustomerID)
	assert.Equal(t, 3, records[1].Recency)
	assert.Equal(t, 5, records[1].Frequency)
	assert.True(t, decimal.RequireFromString("939.37").Equal(records[1].Monetary))
}

func TestCalculator_GroupsDuplicateRows(t *testing.T) {
	calc := NewCalculator(analysisDate, nil)

	records := calc.Calculate([]contracts.Customer{
		customer("x", day(2021, 1, 1), 3, "10.50"),
		customer("y", day(2021, 5, 1), 1, "1"),
		customer("x", day(2021, 5, 20), 4, "20.25"),
	})
	require.Len(t, records, 2)

	x := records[0]
	assert.Equal(t, "x", x.CustomerID)
	assert.Equal(t, 13, x.Recency, "uses the latest last_order_date in the group")
	assert.Equal(t, 7, x.Frequency)
	assert.True(t, decimal.RequireFromString("30.75").Equal(x.Monetary))
}

func TestCalculator_Empty(t *testing.T) {
	records := NewCalculator(analysisDate, nil).Calculate(nil)
	assert.Empty(t, records)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want int
	}{
		{"same day", analysisDate, 0},
		{"three days", day(2021, 5, 30), 3},
		{"partial day floors", analysisDate.Add(-36 * time.Hour), 1},
		{"future floors down", analysisDate.Add(12 * time.Hour), -1},
		{"one year", day(2020, 6, 2), 365},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, analysisDate))
		})
	}
}
