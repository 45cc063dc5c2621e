package s3_selection

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rfm/backend/internal/campaign"
	"github.com/wonny/rfm/backend/internal/contracts"
)

func scoredCustomer(id string, seg contracts.Segment) contracts.ScoredCustomer {
	return contracts.ScoredCustomer{
		RFMRecord: contracts.RFMRecord{
			CustomerID: id,
			Recency:    3,
			Frequency:  5,
			Monetary:   decimal.RequireFromString("939.37"),
		},
		RecencyScore:   5,
		FrequencyScore: 5,
		MonetaryScore:  4,
		RFScore:        "55",
		Segment:        seg,
	}
}

func raw(id, categories string) contracts.Customer {
	return contracts.Customer{ID: id, InterestedInCategories: categories}
}

func fixtures() ([]contracts.ScoredCustomer, []contracts.Customer) {
	scored := []contracts.ScoredCustomer{
		scoredCustomer("a", contracts.SegmentChampions),
		scoredCustomer("b", contracts.SegmentLoyalCustomers),
		scoredCustomer("c", contracts.SegmentHibernating),
		scoredCustomer("d", contracts.SegmentChampions),
		scoredCustomer("e", contracts.SegmentNewCustomers),
	}
	customers := []contracts.Customer{
		raw("e", "[COCUK]"),
		raw("d", "[ERKEK]"),
		raw("c", "[ERKEK, KADIN]"),
		raw("b", "[KADIN, AKTIFSPOR]"),
		raw("a", "[AKTIFCOCUK, KADIN]"),
	}
	return scored, customers
}

func ids(sel *Selection) []string {
	out := make([]string, 0, sel.Len())
	for _, r := range sel.Rows {
		out = append(out, r.CustomerID)
	}
	return out
}

func TestSelector_LoyalWoman(t *testing.T) {
	scored, customers := fixtures()
	sel := NewSelector(nil).Select(campaign.Default().Campaigns[0], scored, customers)

	assert.Equal(t, []string{"a", "b"}, ids(sel), "follows scored order, not raw order")
	assert.Equal(t, "[AKTIFCOCUK, KADIN]", sel.Rows[0].InterestedInCategories)
	assert.Equal(t, contracts.SegmentChampions, sel.Rows[0].Segment)
}

func TestSelector_NewSegmentMale(t *testing.T) {
	scored, customers := fixtures()
	sel := NewSelector(nil).Select(campaign.Default().Campaigns[1], scored, customers)

	// c: hibernating + ERKEK, e: new_customers + COCUK; d is champions
	assert.Equal(t, []string{"c", "e"}, ids(sel))
}

func TestSelector_EmptyResult(t *testing.T) {
	scored, customers := fixtures()
	for i := range customers {
		customers[i].InterestedInCategories = "[AKTIFSPOR]"
	}

	sel := NewSelector(nil).Select(campaign.Default().Campaigns[0], scored, customers)
	assert.Zero(t, sel.Len())
}

func TestSelector_NoJoinPartner(t *testing.T) {
	scored, _ := fixtures()
	sel := NewSelector(nil).Select(campaign.Default().Campaigns[0], scored, []contracts.Customer{raw("zzz", "[KADIN]")})
	assert.Zero(t, sel.Len())
}

func TestSelector_DuplicateRawRowsJoinEach(t *testing.T) {
	scored := []contracts.ScoredCustomer{scoredCustomer("a", contracts.SegmentChampions)}
	customers := []contracts.Customer{raw("a", "[KADIN]"), raw("a", "[ERKEK]"), raw("a", "[KADIN, ERKEK]")}

	sel := NewSelector(nil).Select(campaign.Default().Campaigns[0], scored, customers)
	require.Equal(t, 2, sel.Len())
	assert.Equal(t, "[KADIN]", sel.Rows[0].InterestedInCategories)
	assert.Equal(t, "[KADIN, ERKEK]", sel.Rows[1].InterestedInCategories)
}

func TestWriteCSV(t *testing.T) {
	scored, customers := fixtures()
	sel := NewSelector(nil).Select(campaign.Default().Campaigns[0], scored, customers)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sel))

	want := ",master_id,recency,frequency,monetary,recency_score,frequency_score,monetary_score,RF_SCORE,segment,interested_in_categories_12\n" +
		"0,a,3,5,939.37,5,5,4,55,champions,\"[AKTIFCOCUK, KADIN]\"\n" +
		"1,b,3,5,939.37,5,5,4,55,loyal_customers,\"[KADIN, AKTIFSPOR]\"\n"
	assert.Equal(t, want, buf.String())
}

func TestExport_EmptySelectionWritesHeader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	sel := &Selection{Campaign: campaign.Default().Campaigns[0]}

	res, err := Export(dir, sel)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rows)
	assert.Equal(t, filepath.Join(dir, "loyal_woman.csv"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(ExportHeader, ",")+"\n", string(data))
}

func TestExport_Idempotent(t *testing.T) {
	scored, customers := fixtures()
	sel := NewSelector(nil).Select(campaign.Default().Campaigns[1], scored, customers)
	dir := t.TempDir()

	res1, err := Export(dir, sel)
	require.NoError(t, err)
	first, err := os.ReadFile(res1.Path)
	require.NoError(t, err)

	res2, err := Export(dir, sel)
	require.NoError(t, err)
	second, err := os.ReadFile(res2.Path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, res2.Rows)
}

func TestExport_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := Export(file, &Selection{Campaign: campaign.Default().Campaigns[0]})
	assert.Error(t, err)
}

func TestWriteFileAtomic_FailedWriteLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loyal_woman.csv")

	err := writeFileAtomic(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, "partial,"); err != nil {
			return err
		}
		return errors.New("disk full")
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "neither the target nor the temp file remains")
}

func TestWriteFileAtomic_KeepsPreviousFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loyal_woman.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	err := writeFileAtomic(path, func(w io.Writer) error { return errors.New("boom") })
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
	assert.NoFileExists(t, path+".tmp")
}
