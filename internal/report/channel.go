package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wonny/rfm/backend/internal/contracts"
)

// ChannelRow aggregates customers of one order channel
type ChannelRow struct {
	Channel     string          `json:"order_channel"`
	Customers   int             `json:"customers"`
	Purchases   int             `json:"total_of_purchases"`
	Expenditure decimal.Decimal `json:"total_expenditure"`
	// 온라인+오프라인 모두 구매한 행 수
	Omnichannel int `json:"omnichannel"`
}

// ChannelSummary groups prepared rows by order_channel, largest channel first
func ChannelSummary(customers []contracts.Customer) []ChannelRow {
	byChannel := make(map[string]*ChannelRow)
	for i := range customers {
		c := &customers[i]
		row, ok := byChannel[c.OrderChannel]
		if !ok {
			row = &ChannelRow{Channel: c.OrderChannel}
			byChannel[c.OrderChannel] = row
		}
		row.Customers++
		row.Purchases += c.TotalOfPurchases
		row.Expenditure = row.Expenditure.Add(c.TotalExpenditure)
		if c.Omnichannel() {
			row.Omnichannel++
		}
	}

	rows := make([]ChannelRow, 0, len(byChannel))
	for _, row := range byChannel {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Customers != rows[j].Customers {
			return rows[i].Customers > rows[j].Customers
		}
		return rows[i].Channel < rows[j].Channel
	})
	return rows
}
