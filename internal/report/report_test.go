package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rfm/backend/internal/contracts"
)

func customer(id, channel string, purchases int, expenditure string) contracts.Customer {
	return contracts.Customer{
		ID:               id,
		OrderChannel:     channel,
		TotalOfPurchases: purchases,
		TotalExpenditure: decimal.RequireFromString(expenditure),
	}
}

func sampleCustomers() []contracts.Customer {
	return []contracts.Customer{
		customer("a", "Android App", 5, "100.50"),
		customer("b", "Mobile", 2, "50"),
		customer("c", "Android App", 3, "300"),
		customer("a", "Desktop", 1, "10"),
	}
}

func TestChannelSummary(t *testing.T) {
	rows := ChannelSummary(sampleCustomers())
	require.Len(t, rows, 3)

	assert.Equal(t, "Android App", rows[0].Channel)
	assert.Equal(t, 2, rows[0].Customers)
	assert.Equal(t, 8, rows[0].Purchases)
	assert.Equal(t, "400.5", rows[0].Expenditure.String())

	// 동률은 채널 이름 순
	assert.Equal(t, "Desktop", rows[1].Channel)
	assert.Equal(t, "Mobile", rows[2].Channel)
}

func TestChannelSummary_Omnichannel(t *testing.T) {
	customers := []contracts.Customer{
		{ID: "a", OrderChannel: "Mobile", OrderNumOnline: 2, OrderNumOffline: 1},
		{ID: "b", OrderChannel: "Mobile", OrderNumOnline: 3},
		{ID: "c", OrderChannel: "Offline", OrderNumOffline: 4},
	}

	rows := ChannelSummary(customers)
	require.Len(t, rows, 2)
	assert.Equal(t, "Mobile", rows[0].Channel)
	assert.Equal(t, 1, rows[0].Omnichannel)
	assert.Equal(t, 0, rows[1].Omnichannel, "offline-only customer")
}

func TestTopCustomers(t *testing.T) {
	tests := []struct {
		name string
		by   RankBy
		n    int
		want []string
	}{
		{"by expenditure", ByExpenditure, 10, []string{"c", "a", "b"}},
		{"by purchases", ByPurchases, 10, []string{"a", "c", "b"}},
		{"limited", ByExpenditure, 2, []string{"c", "a"}},
		{"non-positive n returns all", ByPurchases, 0, []string{"a", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := TopCustomers(sampleCustomers(), tt.by, tt.n)
			got := make([]string, len(top))
			for i, c := range top {
				got[i] = c.CustomerID
			}
			assert.Equal(t, tt.want, got)
		})
	}

	top := TopCustomers(sampleCustomers(), ByPurchases, 1)
	require.Len(t, top, 1)
	assert.Equal(t, 6, top[0].Purchases, "rows of the same customer are summed")
	assert.Equal(t, "110.5", top[0].Expenditure.String())
}

func TestParseRankBy(t *testing.T) {
	by, err := ParseRankBy("purchases")
	require.NoError(t, err)
	assert.Equal(t, ByPurchases, by)

	_, err = ParseRankBy("revenue")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	records := make([]contracts.RFMRecord, 5)
	for i := range records {
		records[i] = contracts.RFMRecord{
			CustomerID: string(rune('a' + i)),
			Recency:    i + 1,
			Frequency:  2,
			Monetary:   decimal.NewFromInt(int64(100 * (i + 1))),
		}
	}

	stats := Describe(records)
	require.Len(t, stats, 3)

	recency := stats[0]
	assert.Equal(t, "recency", recency.Metric)
	assert.Equal(t, 5, recency.Count)
	assert.Equal(t, "3.000", formatDecimal(recency.Mean))
	assert.Equal(t, "1.581", formatDecimal(recency.Std))
	assert.Equal(t, "1", recency.Min.String())
	assert.Equal(t, "2", recency.P25.String())
	assert.Equal(t, "3", recency.P50.String())
	assert.Equal(t, "4", recency.P75.String())
	assert.Equal(t, "5", recency.Max.String())

	assert.Equal(t, "0.000", formatDecimal(stats[1].Std), "constant column")
	assert.Equal(t, "300", stats[2].P50.String())
}

func TestDescribeRaw(t *testing.T) {
	customers := []contracts.Customer{
		{ID: "a", OrderNumOnline: 4, OrderNumOffline: 1, ValueOffline: decimal.RequireFromString("139.99"), ValueOnline: decimal.RequireFromString("799.38")},
		{ID: "b", OrderNumOnline: 2, OrderNumOffline: 3, ValueOffline: decimal.RequireFromString("60.01"), ValueOnline: decimal.RequireFromString("0.62")},
	}

	stats := DescribeRaw(customers)
	require.Len(t, stats, 4)

	assert.Equal(t, "order_num_total_ever_online", stats[0].Metric)
	assert.Equal(t, "3", stats[0].Mean.String())
	assert.Equal(t, "2", stats[1].Mean.String())
	assert.Equal(t, "customer_value_total_ever_offline", stats[2].Metric)
	assert.Equal(t, "100", stats[2].Mean.String())
	assert.Equal(t, "800", stats[3].Max.Add(stats[3].Min).String())
}

func TestDescribeValues_Empty(t *testing.T) {
	st := DescribeValues("recency", nil)
	assert.Equal(t, 0, st.Count)
	assert.True(t, st.Mean.IsZero())
}

func TestSegmentSummary(t *testing.T) {
	scored := []contracts.ScoredCustomer{
		{RFMRecord: contracts.RFMRecord{CustomerID: "a", Recency: 2, Frequency: 10, Monetary: decimal.NewFromInt(100)}, Segment: contracts.SegmentChampions},
		{RFMRecord: contracts.RFMRecord{CustomerID: "b", Recency: 300, Frequency: 2, Monetary: decimal.NewFromInt(20)}, Segment: contracts.SegmentHibernating},
		{RFMRecord: contracts.RFMRecord{CustomerID: "c", Recency: 4, Frequency: 6, Monetary: decimal.NewFromInt(50)}, Segment: contracts.SegmentChampions},
	}

	rows := SegmentSummary(scored)
	require.Len(t, rows, 2)

	assert.Equal(t, contracts.SegmentChampions, rows[0].Segment)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, "3", rows[0].RecencyMean.String())
	assert.Equal(t, "8", rows[0].FrequencyMean.String())
	assert.Equal(t, "75", rows[0].MonetaryMean.String())

	assert.Equal(t, contracts.SegmentHibernating, rows[1].Segment)
	assert.Equal(t, 1, rows[1].Count)
}

func TestSortedSegmentsCoverAll(t *testing.T) {
	assert.ElementsMatch(t, contracts.AllSegments(), sortedSegments())
}

func TestTableRender(t *testing.T) {
	table := &Table{
		Title:   "T",
		Columns: []string{"a", "bb"},
		Rows:    [][]string{{"xxx", "y"}},
	}

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))
	assert.Equal(t, "T\na    bb\n───────\nxxx  y\n", buf.String())
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf,
		ChannelTable(ChannelSummary(sampleCustomers())),
		TopTable(ByExpenditure, TopCustomers(sampleCustomers(), ByExpenditure, 2)),
	)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Order channels")
	assert.Contains(t, out, "Android App")
	assert.Contains(t, out, "400.500")
	assert.Contains(t, out, "Top 2 customers by expenditure")
}
