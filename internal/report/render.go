package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ═══════════════════════════════════════════════════════════
// Text Table Rendering
// 모든 리포트가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// Table is a titled grid of pre-formatted cells
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Render writes the table with columns padded to their widest cell
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = utf8.RuneCountInString(col)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(t.Title)
		b.WriteString("\n")
	}
	writeRow(&b, t.Columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	b.WriteString(strings.Repeat("─", totalWidth))
	b.WriteString("\n")

	for _, row := range t.Rows {
		writeRow(&b, row, widths)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, values []string, widths []int) {
	for i, val := range values {
		if i >= len(widths) {
			break
		}
		b.WriteString(val)
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(val)+2))
		}
	}
	b.WriteString("\n")
}

// formatDecimal renders with three decimals, like the analysis notebook
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(3)
}

// ChannelTable renders ChannelSummary rows
func ChannelTable(rows []ChannelRow) *Table {
	t := &Table{
		Title:   "Order channels",
		Columns: []string{"order_channel", "customers", "omnichannel", "total_of_purchases", "total_expenditure"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Channel,
			strconv.Itoa(r.Customers),
			strconv.Itoa(r.Omnichannel),
			strconv.Itoa(r.Purchases),
			formatDecimal(r.Expenditure),
		})
	}
	return t
}

// TopTable renders TopCustomers rows
func TopTable(by RankBy, rows []TopCustomer) *Table {
	t := &Table{
		Title:   fmt.Sprintf("Top %d customers by %s", len(rows), by),
		Columns: []string{"#", "master_id", "total_of_purchases", "total_expenditure"},
	}
	for i, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			r.CustomerID,
			strconv.Itoa(r.Purchases),
			formatDecimal(r.Expenditure),
		})
	}
	return t
}

// DescribeTable renders Describe rows, one metric per line
func DescribeTable(stats []Stats) *Table {
	t := &Table{
		Title:   "RFM metrics",
		Columns: []string{"metric", "count", "mean", "std", "min", "25%", "50%", "75%", "max"},
	}
	for _, s := range stats {
		t.Rows = append(t.Rows, []string{
			s.Metric,
			strconv.Itoa(s.Count),
			formatDecimal(s.Mean),
			formatDecimal(s.Std),
			formatDecimal(s.Min),
			formatDecimal(s.P25),
			formatDecimal(s.P50),
			formatDecimal(s.P75),
			formatDecimal(s.Max),
		})
	}
	return t
}

// SegmentTable renders SegmentSummary rows
func SegmentTable(rows []SegmentRow) *Table {
	t := &Table{
		Title:   "Segments",
		Columns: []string{"segment", "count", "recency_mean", "frequency_mean", "monetary_mean"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Segment.String(),
			strconv.Itoa(r.Count),
			formatDecimal(r.RecencyMean),
			formatDecimal(r.FrequencyMean),
			formatDecimal(r.MonetaryMean),
		})
	}
	return t
}

// Render writes each table followed by a blank line
func Render(w io.Writer, tables ...*Table) error {
	for _, t := range tables {
		if err := t.Render(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
