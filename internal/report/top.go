package report

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wonny/rfm/backend/internal/contracts"
)

// RankBy selects the metric TopCustomers orders by
type RankBy string

const (
	ByExpenditure RankBy = "expenditure"
	ByPurchases   RankBy = "purchases"
)

// ParseRankBy validates a --by flag value
func ParseRankBy(s string) (RankBy, error) {
	switch RankBy(s) {
	case ByExpenditure, ByPurchases:
		return RankBy(s), nil
	default:
		return "", fmt.Errorf("invalid rank metric %q (expected %s or %s)", s, ByExpenditure, ByPurchases)
	}
}

// TopCustomer is one customer's summed purchases and expenditure
type TopCustomer struct {
	CustomerID  string          `json:"master_id"`
	Purchases   int             `json:"total_of_purchases"`
	Expenditure decimal.Decimal `json:"total_expenditure"`
}

// TopCustomers groups rows by customer ID and returns the n largest by the
// chosen metric. Ties fall back to customer ID. n <= 0 returns everyone.
func TopCustomers(customers []contracts.Customer, by RankBy, n int) []TopCustomer {
	index := make(map[string]int)
	var totals []TopCustomer
	for i := range customers {
		c := &customers[i]
		pos, ok := index[c.ID]
		if !ok {
			pos = len(totals)
			index[c.ID] = pos
			totals = append(totals, TopCustomer{CustomerID: c.ID})
		}
		totals[pos].Purchases += c.TotalOfPurchases
		totals[pos].Expenditure = totals[pos].Expenditure.Add(c.TotalExpenditure)
	}

	sort.Slice(totals, func(i, j int) bool {
		a, b := totals[i], totals[j]
		switch by {
		case ByPurchases:
			if a.Purchases != b.Purchases {
				return a.Purchases > b.Purchases
			}
		default:
			if cmp := a.Expenditure.Cmp(b.Expenditure); cmp != 0 {
				return cmp > 0
			}
		}
		return a.CustomerID < b.CustomerID
	})

	if n > 0 && n < len(totals) {
		totals = totals[:n]
	}
	return totals
}
