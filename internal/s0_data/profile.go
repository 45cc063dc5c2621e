package s0_data

import (
	"sort"
	"strings"

	"github.com/go-gota/gota/series"
)

// ColumnProfile summarizes one raw column
type ColumnProfile struct {
	Name     string
	Nulls    int
	Distinct int
}

// ValueCount is a category value and how often it occurs
type ValueCount struct {
	Value string
	Count int
}

// Profile is the data check of the raw table
type Profile struct {
	Rows              int
	Columns           []ColumnProfile
	OrderChannels     []ValueCount
	LastOrderChannels []ValueCount
	// 옴니채널 라벨이 실제로 있는지 확인용
	OmnichannelRows int
}

// ProfileTable computes null and distinct counts per column and the
// order_channel / last_order_channel distributions.
func ProfileTable(table *Table) *Profile {
	df := table.Frame()
	p := &Profile{Rows: df.Nrow()}

	for _, name := range df.Names() {
		p.Columns = append(p.Columns, profileSeries(df.Col(name)))
	}

	if table.Require(ColOrderChannel) == nil {
		p.OrderChannels = valueCounts(df.Col(ColOrderChannel))
		for _, vc := range p.OrderChannels {
			if vc.Value == "Omnichannel" {
				p.OmnichannelRows = vc.Count
			}
		}
	}
	if table.Require(ColLastOrderChannel) == nil {
		p.LastOrderChannels = valueCounts(df.Col(ColLastOrderChannel))
	}

	return p
}

func profileSeries(s series.Series) ColumnProfile {
	nan := s.IsNaN()
	seen := make(map[string]struct{})
	nulls := 0
	for i, v := range s.Records() {
		if nan[i] || isNull(v) {
			nulls++
			continue
		}
		seen[v] = struct{}{}
	}
	return ColumnProfile{Name: s.Name, Nulls: nulls, Distinct: len(seen)}
}

// valueCounts skips nulls and sorts by count desc, then value
func valueCounts(s series.Series) []ValueCount {
	nan := s.IsNaN()
	counts := make(map[string]int)
	for i, v := range s.Records() {
		if nan[i] || isNull(v) {
			continue
		}
		counts[v]++
	}

	out := make([]ValueCount, 0, len(counts))
	for value, n := range counts {
		out = append(out, ValueCount{Value: value, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Value < out[b].Value
	})
	return out
}

func isNull(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NA", "NaN", "null":
		return true
	}
	return false
}
