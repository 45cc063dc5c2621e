package s3_selection

import (
	"github.com/wonny/rfm/backend/internal/campaign"
	"github.com/wonny/rfm/backend/internal/contracts"
	"github.com/wonny/rfm/backend/pkg/logger"
)

// Row is one scored customer joined with a raw category-interest value
type Row struct {
	contracts.ScoredCustomer
	InterestedInCategories string
}

// Selection is the target list of one campaign
type Selection struct {
	Campaign campaign.Campaign
	Rows     []Row
}

// Len returns the number of selected rows
func (s *Selection) Len() int {
	return len(s.Rows)
}

// Selector implements S3: segment + category filter and join
// ⭐ SSOT: 캠페인 대상 추출은 여기서만
type Selector struct {
	logger *logger.Logger
}

// NewSelector creates a new selector
func NewSelector(log *logger.Logger) *Selector {
	if log == nil {
		log = logger.Nop()
	}
	return &Selector{logger: log.WithStage("S3")}
}

// Select keeps scored customers whose segment belongs to the campaign and
// inner-joins them on customer ID with the raw rows whose category string
// contains a campaign marker. Rows follow scored order, then raw order.
// An empty result is valid.
func (s *Selector) Select(c campaign.Campaign, scored []contracts.ScoredCustomer, customers []contracts.Customer) *Selection {
	interests := make(map[string][]string)
	for i := range customers {
		cust := &customers[i]
		if c.MatchesCategories(cust.InterestedInCategories) {
			interests[cust.ID] = append(interests[cust.ID], cust.InterestedInCategories)
		}
	}

	sel := &Selection{Campaign: c}
	for _, sc := range scored {
		if !c.IncludesSegment(sc.Segment) {
			continue
		}
		for _, categories := range interests[sc.CustomerID] {
			sel.Rows = append(sel.Rows, Row{ScoredCustomer: sc, InterestedInCategories: categories})
		}
	}

	log := s.logger.WithFields(map[string]interface{}{
		"campaign": c.Name,
		"rows":     sel.Len(),
	})
	if sel.Len() == 0 {
		log.Warn("Campaign selected no customers")
	} else {
		log.Info("Campaign selection completed")
	}

	return sel
}
