package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rfm/backend/internal/campaign"
	"github.com/wonny/rfm/backend/internal/contracts"
	"github.com/wonny/rfm/backend/internal/s2_scoring"
	"github.com/wonny/rfm/backend/internal/s3_selection"
)

var analysisDate = time.Date(2021, 6, 2, 0, 0, 0, 0, time.UTC)

const header = "master_id,order_channel,last_order_channel,first_order_date,last_order_date," +
	"last_order_date_online,last_order_date_offline,order_num_total_ever_online," +
	"order_num_total_ever_offline,customer_value_total_ever_offline," +
	"customer_value_total_ever_online,interested_in_categories_12"

// writeInput builds ten customers c00..c09: recency 3+3i days, frequency
// 11-i orders, so c00/c01 are champions, c02/c03 loyal_customers,
// c04/c05 need_attention and c06..c09 hibernating. Even rows shop KADIN,
// odd rows ERKEK and COCUK.
func writeInput(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(header + "\n")
	for i := 0; i < 10; i++ {
		last := analysisDate.AddDate(0, 0, -(3 + 3*i)).Format("2006-01-02")
		categories := "[KADIN]"
		if i%2 == 1 {
			categories = `"[ERKEK, COCUK]"`
		}
		fmt.Fprintf(&b, "c%02d,Android App,Mobile,2019-01-01,%s,%s,%s,%d.0,1.0,10.00,%d.50,%s\n",
			i, last, last, last, 10-i, 100*(i+1), categories)
	}

	path := filepath.Join(t.TempDir(), "flo.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

type fakeStore struct {
	ensured   bool
	run       s3_selection.RunRecord
	scored    int
	campaigns map[string]int
	err       error
}

func (f *fakeStore) EnsureSchema(ctx context.Context) error {
	f.ensured = true
	return f.err
}

func (f *fakeStore) SaveRun(ctx context.Context, run s3_selection.RunRecord, scored []contracts.ScoredCustomer) error {
	f.run = run
	f.scored = len(scored)
	return nil
}

func (f *fakeStore) SaveCampaign(ctx context.Context, runID string, sel *s3_selection.Selection) error {
	if f.campaigns == nil {
		f.campaigns = make(map[string]int)
	}
	f.campaigns[sel.Campaign.Name] = sel.Len()
	return nil
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestOrchestrator_Run(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()

	o := NewOrchestrator(nil, nil)
	result, err := o.Run(context.Background(), RunConfig{
		AnalysisDate: analysisDate,
		InputPath:    input,
		OutputDir:    outDir,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.RunID, "run id is generated")
	assert.NotEmpty(t, result.CampaignsHash)
	assert.Equal(t, []string{"S0:Data", "S1:RFM", "S2:Scoring", "S3:Selection"}, result.CompletedStages)
	assert.Len(t, result.Stages, 4)
	assert.False(t, result.Persisted)

	counts := result.Analysis.SegmentCounts()
	assert.Equal(t, 2, counts[contracts.SegmentChampions])
	assert.Equal(t, 2, counts[contracts.SegmentLoyalCustomers])
	assert.Equal(t, 2, counts[contracts.SegmentNeedAttention])
	assert.Equal(t, 4, counts[contracts.SegmentHibernating])

	require.Len(t, result.Exports, 2)
	assert.Equal(t, "loyal_woman", result.Exports[0].Campaign)
	assert.Equal(t, 2, result.Exports[0].Rows)
	assert.Equal(t, "new_segment_male", result.Exports[1].Campaign)
	assert.Equal(t, 2, result.Exports[1].Rows)

	loyal := readLines(t, filepath.Join(outDir, "loyal_woman.csv"))
	require.Len(t, loyal, 3)
	assert.True(t, strings.HasPrefix(loyal[0], ",master_id,"))
	assert.True(t, strings.HasPrefix(loyal[1], "0,c00,3,11,110.5,5,5,1,55,champions,"))
	assert.True(t, strings.HasPrefix(loyal[2], "1,c02,9,9,"))

	male := readLines(t, filepath.Join(outDir, "new_segment_male.csv"))
	require.Len(t, male, 3)
	assert.True(t, strings.HasPrefix(male[1], "0,c07,"))
	assert.True(t, strings.HasPrefix(male[2], "1,c09,"))
}

func TestOrchestrator_RunIsIdempotent(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()
	o := NewOrchestrator(nil, nil)

	cfg := RunConfig{AnalysisDate: analysisDate, InputPath: input, OutputDir: outDir}
	_, err := o.Run(context.Background(), cfg)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(outDir, "new_segment_male.csv"))
	require.NoError(t, err)

	_, err = o.Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(outDir, "new_segment_male.csv"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestOrchestrator_EmptyCampaign(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()

	cfg := &campaign.Config{Campaigns: []campaign.Campaign{{
		Name:            "promising_sport",
		Segments:        []contracts.Segment{contracts.SegmentPromising},
		CategoryMarkers: []string{"AKTIFSPOR"},
		Output:          "promising_sport.csv",
	}}}

	result, err := NewOrchestrator(nil, nil).Run(context.Background(), RunConfig{
		AnalysisDate: analysisDate,
		InputPath:    input,
		OutputDir:    outDir,
		Campaigns:    cfg,
	})
	require.NoError(t, err)
	require.Len(t, result.Exports, 1)
	assert.Equal(t, 0, result.Exports[0].Rows)
	assert.Len(t, readLines(t, result.Exports[0].Path), 1, "header only")
}

func TestOrchestrator_Persist(t *testing.T) {
	store := &fakeStore{}
	o := NewOrchestrator(store, nil)

	runID := uuid.NewString()
	result, err := o.Run(context.Background(), RunConfig{
		RunID:        runID,
		AnalysisDate: analysisDate,
		InputPath:    writeInput(t),
		OutputDir:    t.TempDir(),
		Persist:      true,
	})
	require.NoError(t, err)

	assert.True(t, result.Persisted)
	assert.Contains(t, result.CompletedStages, "Persist")
	assert.True(t, store.ensured)
	assert.Equal(t, runID, store.run.RunID)
	assert.Equal(t, result.CampaignsHash, store.run.CampaignsHash)
	assert.Equal(t, 10, store.scored)
	assert.Equal(t, map[string]int{"loyal_woman": 2, "new_segment_male": 2}, store.campaigns)
}

func TestOrchestrator_PersistErrors(t *testing.T) {
	cfg := RunConfig{
		AnalysisDate: analysisDate,
		InputPath:    writeInput(t),
		OutputDir:    t.TempDir(),
		Persist:      true,
	}

	_, err := NewOrchestrator(nil, nil).Run(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrNoStore)

	cfg.RunID = "not-a-uuid"
	_, err = NewOrchestrator(&fakeStore{}, nil).Run(context.Background(), cfg)
	assert.Error(t, err)

	cfg.RunID = ""
	boom := errors.New("boom")
	result, err := NewOrchestrator(&fakeStore{err: boom}, nil).Run(context.Background(), cfg)
	assert.ErrorIs(t, err, boom)
	assert.False(t, result.Success)
	assert.NotContains(t, result.CompletedStages, "Persist")
}

func TestOrchestrator_Failures(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		result, err := NewOrchestrator(nil, nil).Run(context.Background(), RunConfig{
			AnalysisDate: analysisDate,
			InputPath:    filepath.Join(t.TempDir(), "missing.csv"),
			OutputDir:    t.TempDir(),
		})
		require.Error(t, err)
		assert.Empty(t, result.CompletedStages)
	})

	t.Run("degenerate recency", func(t *testing.T) {
		var b strings.Builder
		b.WriteString(header + "\n")
		for i := 0; i < 10; i++ {
			fmt.Fprintf(&b, "c%02d,Mobile,Mobile,2019-01-01,2021-05-30,2021-05-30,2021-05-30,%d,1,10,%d,[KADIN]\n", i, i+1, 100*(i+1))
		}
		path := filepath.Join(t.TempDir(), "flo.csv")
		require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

		_, err := NewOrchestrator(nil, nil).Run(context.Background(), RunConfig{
			AnalysisDate: analysisDate,
			InputPath:    path,
			OutputDir:    t.TempDir(),
		})
		assert.ErrorIs(t, err, s2_scoring.ErrDuplicateEdges)
		assert.Contains(t, err.Error(), "recency")
	})

	t.Run("invalid campaigns", func(t *testing.T) {
		_, err := NewOrchestrator(nil, nil).Run(context.Background(), RunConfig{
			AnalysisDate: analysisDate,
			InputPath:    writeInput(t),
			OutputDir:    t.TempDir(),
			Campaigns:    &campaign.Config{},
		})
		assert.Error(t, err)
	})

	t.Run("failed export removes other campaign files", func(t *testing.T) {
		outDir := t.TempDir()
		// 디렉터리가 있어서 blocked.csv 로 rename 불가
		blocked := filepath.Join(outDir, "blocked.csv")
		require.NoError(t, os.MkdirAll(filepath.Join(blocked, "keep"), 0o755))

		cfg := campaign.Default()
		cfg.Campaigns[1].Output = "blocked.csv"

		_, err := NewOrchestrator(nil, nil).Run(context.Background(), RunConfig{
			AnalysisDate: analysisDate,
			InputPath:    writeInput(t),
			OutputDir:    outDir,
			Campaigns:    cfg,
		})
		require.Error(t, err)
		assert.NoFileExists(t, filepath.Join(outDir, "loyal_woman.csv"))
		assert.NoFileExists(t, blocked+".tmp")
		assert.DirExists(t, blocked)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewOrchestrator(nil, nil).Run(ctx, RunConfig{
			AnalysisDate: analysisDate,
			InputPath:    writeInput(t),
			OutputDir:    t.TempDir(),
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
