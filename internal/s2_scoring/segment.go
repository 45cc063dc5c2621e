package s2_scoring

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/wonny/rfm/backend/internal/contracts"
)

// ErrUnmappedScore is returned for score digits outside 1..5
var ErrUnmappedScore = errors.New("rf score outside the 5x5 grid")

// segmentGrid[recency-1][frequency-1]
// ⭐ SSOT: RF → 세그먼트 매핑은 이 표 하나
var segmentGrid = [5][5]contracts.Segment{
	// r=1: f=1..5
	{contracts.SegmentHibernating, contracts.SegmentHibernating, contracts.SegmentAtRisk, contracts.SegmentAtRisk, contracts.SegmentCantLoose},
	// r=2
	{contracts.SegmentHibernating, contracts.SegmentHibernating, contracts.SegmentAtRisk, contracts.SegmentAtRisk, contracts.SegmentCantLoose},
	// r=3
	{contracts.SegmentAboutToSleep, contracts.SegmentAboutToSleep, contracts.SegmentNeedAttention, contracts.SegmentLoyalCustomers, contracts.SegmentLoyalCustomers},
	// r=4
	{contracts.SegmentPromising, contracts.SegmentPotentialLoyalists, contracts.SegmentPotentialLoyalists, contracts.SegmentLoyalCustomers, contracts.SegmentLoyalCustomers},
	// r=5
	{contracts.SegmentNewCustomers, contracts.SegmentPotentialLoyalists, contracts.SegmentPotentialLoyalists, contracts.SegmentChampions, contracts.SegmentChampions},
}

// Classify maps a recency/frequency score pair to its segment
func Classify(recencyScore, frequencyScore int) (contracts.Segment, error) {
	if recencyScore < 1 || recencyScore > 5 || frequencyScore < 1 || frequencyScore > 5 {
		return "", fmt.Errorf("%w: %d%d", ErrUnmappedScore, recencyScore, frequencyScore)
	}
	return segmentGrid[recencyScore-1][frequencyScore-1], nil
}

// ClassifyCode maps a two-digit RF_SCORE such as "55"
func ClassifyCode(code string) (contracts.Segment, error) {
	if len(code) != 2 {
		return "", fmt.Errorf("%w: %q", ErrUnmappedScore, code)
	}
	r, err1 := strconv.Atoi(code[:1])
	f, err2 := strconv.Atoi(code[1:])
	if err1 != nil || err2 != nil {
		return "", fmt.Errorf("%w: %q", ErrUnmappedScore, code)
	}
	return Classify(r, f)
}

// DigitRange is an inclusive range of score digits, e.g. [3-4]
type DigitRange struct {
	Lo, Hi int
}

// Contains reports whether d lies in the range
func (r DigitRange) Contains(d int) bool {
	return d >= r.Lo && d <= r.Hi
}

// Rule is one pattern of the marketing segment table
type Rule struct {
	Pattern   string
	Recency   DigitRange
	Frequency DigitRange
	Segment   contracts.Segment
}

// Matches reports whether the score pair falls inside the rule
func (r Rule) Matches(recencyScore, frequencyScore int) bool {
	return r.Recency.Contains(recencyScore) && r.Frequency.Contains(frequencyScore)
}

// Rules returns the segment table in its documented order
func Rules() []Rule {
	table := []struct {
		pattern string
		segment contracts.Segment
	}{
		{"[1-2][1-2]", contracts.SegmentHibernating},
		{"[1-2][3-4]", contracts.SegmentAtRisk},
		{"[1-2]5", contracts.SegmentCantLoose},
		{"3[1-2]", contracts.SegmentAboutToSleep},
		{"33", contracts.SegmentNeedAttention},
		{"[3-4][4-5]", contracts.SegmentLoyalCustomers},
		{"41", contracts.SegmentPromising},
		{"51", contracts.SegmentNewCustomers},
		{"[4-5][2-3]", contracts.SegmentPotentialLoyalists},
		{"5[4-5]", contracts.SegmentChampions},
	}

	rules := make([]Rule, 0, len(table))
	for _, row := range table {
		rule, err := ParseRule(row.pattern, row.segment)
		if err != nil {
			panic(err)
		}
		rules = append(rules, rule)
	}
	return rules
}

// MatchRules returns the first rule matching the pair
func MatchRules(rules []Rule, recencyScore, frequencyScore int) (Rule, bool) {
	for _, rule := range rules {
		if rule.Matches(recencyScore, frequencyScore) {
			return rule, true
		}
	}
	return Rule{}, false
}

// ParseRule parses a two-position pattern where each position is a single
// digit ("3") or an inclusive range ("[3-4]").
func ParseRule(pattern string, segment contracts.Segment) (Rule, error) {
	rest := pattern
	var ranges [2]DigitRange
	for i := range ranges {
		r, n, err := parseDigitRange(rest)
		if err != nil {
			return Rule{}, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		ranges[i] = r
		rest = rest[n:]
	}
	if rest != "" {
		return Rule{}, fmt.Errorf("pattern %q: trailing %q", pattern, rest)
	}
	return Rule{Pattern: pattern, Recency: ranges[0], Frequency: ranges[1], Segment: segment}, nil
}

func parseDigitRange(s string) (DigitRange, int, error) {
	if s == "" {
		return DigitRange{}, 0, errors.New("expected digit or range")
	}
	if isDigit(s[0]) {
		d := int(s[0] - '0')
		return DigitRange{Lo: d, Hi: d}, 1, nil
	}
	if len(s) >= 5 && s[0] == '[' && isDigit(s[1]) && s[2] == '-' && isDigit(s[3]) && s[4] == ']' {
		lo, hi := int(s[1]-'0'), int(s[3]-'0')
		if lo > hi {
			return DigitRange{}, 0, fmt.Errorf("empty range %s", s[:5])
		}
		return DigitRange{Lo: lo, Hi: hi}, 5, nil
	}
	return DigitRange{}, 0, fmt.Errorf("unexpected %q", s)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
