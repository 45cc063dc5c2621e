package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is one prepared row of the customer-order table (S0 → S1)
// ⭐ SSOT: S0 준비 단계의 출력 타입
type Customer struct {
	ID               string `json:"master_id"`
	OrderChannel     string `json:"order_channel"`
	LastOrderChannel string `json:"last_order_channel"`

	FirstOrderDate       time.Time `json:"first_order_date"`
	LastOrderDate        time.Time `json:"last_order_date"`
	LastOrderDateOnline  time.Time `json:"last_order_date_online"`
	LastOrderDateOffline time.Time `json:"last_order_date_offline"`

	OrderNumOnline  int             `json:"order_num_total_ever_online"`
	OrderNumOffline int             `json:"order_num_total_ever_offline"`
	ValueOffline    decimal.Decimal `json:"customer_value_total_ever_offline"`
	ValueOnline     decimal.Decimal `json:"customer_value_total_ever_online"`

	// 최근 12개월 구매 카테고리, 원본 문자열 그대로 (예: "[KADIN, AKTIFSPOR]")
	InterestedInCategories string `json:"interested_in_categories_12"`

	// Derived during preparation
	TotalOfPurchases int             `json:"total_of_purchases"`
	TotalExpenditure decimal.Decimal `json:"total_expenditure"`
}

// Omnichannel reports whether the customer bought both online and offline
func (c *Customer) Omnichannel() bool {
	return c.OrderNumOnline > 0 && c.OrderNumOffline > 0
}
