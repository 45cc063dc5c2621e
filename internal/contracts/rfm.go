package contracts

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RFMRecord is the per-customer aggregate produced by S1
type RFMRecord struct {
	CustomerID string          `json:"master_id"`
	Recency    int             `json:"recency"`   // days since last order
	Frequency  int             `json:"frequency"` // total orders
	Monetary   decimal.Decimal `json:"monetary"`  // total spend
}

// ScoredCustomer is an RFMRecord with its quintile scores and segment (S2 → S3)
type ScoredCustomer struct {
	RFMRecord

	RecencyScore   int     `json:"recency_score"`
	FrequencyScore int     `json:"frequency_score"`
	MonetaryScore  int     `json:"monetary_score"`
	RFScore        string  `json:"RF_SCORE"`
	Segment        Segment `json:"segment"`
}

// RFScoreOf concatenates recency and frequency digits, monetary is not part of it
func RFScoreOf(recencyScore, frequencyScore int) string {
	return fmt.Sprintf("%d%d", recencyScore, frequencyScore)
}
