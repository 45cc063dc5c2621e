package campaign

import (
	"strings"

	"github.com/wonny/rfm/backend/internal/contracts"
)

// Config is the set of target-list campaigns exported after scoring
type Config struct {
	Campaigns []Campaign `yaml:"campaigns" json:"campaigns"`
}

// Campaign selects customers by segment and category interest
type Campaign struct {
	Name            string              `yaml:"name" json:"name"`
	Description     string              `yaml:"description,omitempty" json:"description,omitempty"`
	Segments        []contracts.Segment `yaml:"segments" json:"segments"`
	CategoryMarkers []string            `yaml:"category_markers" json:"category_markers"` // OR, 대소문자 구분
	Output          string              `yaml:"output" json:"output"`
}

// IncludesSegment reports whether s is one of the campaign's segments
func (c *Campaign) IncludesSegment(s contracts.Segment) bool {
	for _, seg := range c.Segments {
		if seg == s {
			return true
		}
	}
	return false
}

// MatchesCategories reports whether categories contains any marker as an
// exact substring
func (c *Campaign) MatchesCategories(categories string) bool {
	for _, marker := range c.CategoryMarkers {
		if strings.Contains(categories, marker) {
			return true
		}
	}
	return false
}

// Default returns the two campaigns of the FLO analysis
func Default() *Config {
	return &Config{
		Campaigns: []Campaign{
			{
				Name:            "loyal_woman",
				Description:     "New premium women's shoe brand: loyal customers who shop the women's category",
				Segments:        []contracts.Segment{contracts.SegmentChampions, contracts.SegmentLoyalCustomers},
				CategoryMarkers: []string{"KADIN"},
				Output:          "loyal_woman.csv",
			},
			{
				Name:        "new_segment_male",
				Description: "~40% discount on men's and kids' products: lapsing, sleeping and new customers",
				Segments: []contracts.Segment{
					contracts.SegmentCantLoose,
					contracts.SegmentHibernating,
					contracts.SegmentAboutToSleep,
					contracts.SegmentNewCustomers,
				},
				CategoryMarkers: []string{"ERKEK", "COCUK"},
				Output:          "new_segment_male.csv",
			},
		},
	}
}
