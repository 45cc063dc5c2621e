package s0_data

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/rfm/backend/internal/contracts"
)

// Column names of the customer-order table
const (
	ColMasterID             = "master_id"
	ColOrderChannel         = "order_channel"
	ColLastOrderChannel     = "last_order_channel"
	ColFirstOrderDate       = "first_order_date"
	ColLastOrderDate        = "last_order_date"
	ColLastOrderDateOnline  = "last_order_date_online"
	ColLastOrderDateOffline = "last_order_date_offline"
	ColOrderNumOnline       = "order_num_total_ever_online"
	ColOrderNumOffline      = "order_num_total_ever_offline"
	ColValueOffline         = "customer_value_total_ever_offline"
	ColValueOnline          = "customer_value_total_ever_online"
	ColInterestedCategories = "interested_in_categories_12"
)

// RequiredColumns lists every column Prepare reads
func RequiredColumns() []string {
	return []string{
		ColMasterID,
		ColOrderChannel,
		ColLastOrderChannel,
		ColFirstOrderDate,
		ColLastOrderDate,
		ColLastOrderDateOnline,
		ColLastOrderDateOffline,
		ColOrderNumOnline,
		ColOrderNumOffline,
		ColValueOffline,
		ColValueOnline,
		ColInterestedCategories,
	}
}

// DateColumns are converted from text to dates during preparation
func DateColumns() []string {
	return []string{ColFirstOrderDate, ColLastOrderDate, ColLastOrderDateOnline, ColLastOrderDateOffline}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseError points at the cell that could not be converted
type ParseError struct {
	Row    int // 1-based data row (header excluded)
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d, column %s: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Prepare converts the raw table into typed customers and derives
// total_of_purchases and total_expenditure. The table is not modified and
// row order is preserved.
func Prepare(table *Table) ([]contracts.Customer, error) {
	if err := table.Require(RequiredColumns()...); err != nil {
		return nil, err
	}

	customers := make([]contracts.Customer, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		c, err := prepareRow(table, i)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, nil
}

func prepareRow(table *Table, row int) (contracts.Customer, error) {
	p := rowParser{table: table, row: row}

	c := contracts.Customer{
		ID:                     p.text(ColMasterID),
		OrderChannel:           p.text(ColOrderChannel),
		LastOrderChannel:       p.text(ColLastOrderChannel),
		FirstOrderDate:         p.date(ColFirstOrderDate),
		LastOrderDate:          p.date(ColLastOrderDate),
		LastOrderDateOnline:    p.date(ColLastOrderDateOnline),
		LastOrderDateOffline:   p.date(ColLastOrderDateOffline),
		OrderNumOnline:         p.count(ColOrderNumOnline),
		OrderNumOffline:        p.count(ColOrderNumOffline),
		ValueOffline:           p.amount(ColValueOffline),
		ValueOnline:            p.amount(ColValueOnline),
		InterestedInCategories: p.text(ColInterestedCategories),
	}
	if p.err != nil {
		return contracts.Customer{}, p.err
	}
	if c.ID == "" {
		return contracts.Customer{}, &ParseError{Row: row + 1, Column: ColMasterID, Err: fmt.Errorf("empty customer id")}
	}

	// 옴니채널 합계
	c.TotalOfPurchases = c.OrderNumOnline + c.OrderNumOffline
	c.TotalExpenditure = c.ValueOffline.Add(c.ValueOnline)

	return c, nil
}

// rowParser keeps the first conversion error so prepareRow reads linearly
type rowParser struct {
	table *Table
	row   int // 0-based
	err   error
}

func (p *rowParser) text(col string) string {
	values, err := p.table.Column(col)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(values[p.row])
}

func (p *rowParser) fail(col, value string, err error) {
	if p.err == nil {
		p.err = &ParseError{Row: p.row + 1, Column: col, Value: value, Err: err}
	}
}

func (p *rowParser) date(col string) time.Time {
	value := p.text(col)
	t, err := ParseDate(value)
	if err != nil {
		p.fail(col, value, err)
	}
	return t
}

func (p *rowParser) count(col string) int {
	value := p.text(col)
	d, err := decimal.NewFromString(value)
	if err != nil {
		p.fail(col, value, err)
		return 0
	}
	if !d.IsInteger() {
		p.fail(col, value, fmt.Errorf("order count must be integral"))
		return 0
	}
	if d.IsNegative() {
		p.fail(col, value, fmt.Errorf("order count must be >= 0"))
		return 0
	}
	return int(d.IntPart())
}

func (p *rowParser) amount(col string) decimal.Decimal {
	value := p.text(col)
	d, err := decimal.NewFromString(value)
	if err != nil {
		p.fail(col, value, err)
		return decimal.Zero
	}
	if d.IsNegative() {
		p.fail(col, value, fmt.Errorf("amount must be >= 0"))
		return decimal.Zero
	}
	return d
}

// ParseDate accepts date-only and timestamp forms, always in UTC
func ParseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
