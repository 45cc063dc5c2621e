package contracts

// Segment is a named marketing segment derived from RF_SCORE
type Segment string

const (
	SegmentHibernating        Segment = "hibernating"
	SegmentAtRisk             Segment = "at_risk"
	SegmentCantLoose          Segment = "cant_loose"
	SegmentAboutToSleep       Segment = "about_to_sleep"
	SegmentNeedAttention      Segment = "need_attention"
	SegmentLoyalCustomers     Segment = "loyal_customers"
	SegmentPromising          Segment = "promising"
	SegmentNewCustomers       Segment = "new_customers"
	SegmentPotentialLoyalists Segment = "potential_loyalists"
	SegmentChampions          Segment = "champions"
)

// AllSegments returns the ten segments in rule-table order
func AllSegments() []Segment {
	return []Segment{
		SegmentHibernating,
		SegmentAtRisk,
		SegmentCantLoose,
		SegmentAboutToSleep,
		SegmentNeedAttention,
		SegmentLoyalCustomers,
		SegmentPromising,
		SegmentNewCustomers,
		SegmentPotentialLoyalists,
		SegmentChampions,
	}
}

// Valid reports whether s is one of the ten known segments
func (s Segment) Valid() bool {
	for _, known := range AllSegments() {
		if s == known {
			return true
		}
	}
	return false
}

func (s Segment) String() string {
	return string(s)
}
