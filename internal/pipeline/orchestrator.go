package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/rfm/backend/internal/campaign"
	"github.com/wonny/rfm/backend/internal/contracts"
	"github.com/wonny/rfm/backend/internal/s0_data"
	"github.com/wonny/rfm/backend/internal/s1_rfm"
	"github.com/wonny/rfm/backend/internal/s2_scoring"
	"github.com/wonny/rfm/backend/internal/s3_selection"
	"github.com/wonny/rfm/backend/pkg/logger"
)

// ErrNoStore is returned when persistence is requested without a store
var ErrNoStore = errors.New("persist requested but no result store is configured")

// Store persists a run's scores and campaign members.
// *s3_selection.Repository implements it.
type Store interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, run s3_selection.RunRecord, scored []contracts.ScoredCustomer) error
	SaveCampaign(ctx context.Context, runID string, sel *s3_selection.Selection) error
}

// Orchestrator coordinates the S0 → S3 pipeline
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	scorer   *s2_scoring.Scorer
	selector *s3_selection.Selector
	store    Store // nil이면 DB 저장 없음

	logger *logger.Logger
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID        string // empty → generated
	AnalysisDate time.Time
	InputPath    string
	OutputDir    string
	Campaigns    *campaign.Config // nil → campaign.Default()
	Persist      bool
}

// Analysis is the output of S0–S2, kept for reports
type Analysis struct {
	Customers []contracts.Customer
	Records   []contracts.RFMRecord
	Scored    []contracts.ScoredCustomer
	Stages    []contracts.StageResult
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID           string
	AnalysisDate    time.Time
	CampaignsHash   string
	Success         bool
	Error           error
	CompletedStages []string
	Stages          []contracts.StageResult
	Analysis        *Analysis
	Exports         []*s3_selection.ExportResult
	Persisted       bool
	Duration        time.Duration
}

// SegmentCounts returns customers per segment of the scored population
func (a *Analysis) SegmentCounts() map[contracts.Segment]int {
	counts := make(map[contracts.Segment]int)
	for _, sc := range a.Scored {
		counts[sc.Segment]++
	}
	return counts
}

// NewOrchestrator creates a new orchestrator. store may be nil.
func NewOrchestrator(store Store, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		scorer:   s2_scoring.NewScorer(log),
		selector: s3_selection.NewSelector(log),
		store:    store,
		logger:   log,
	}
}

// Analyze runs S0 → S1 → S2 on the input file
func (o *Orchestrator) Analyze(ctx context.Context, inputPath string, analysisDate time.Time) (*Analysis, error) {
	analysis := &Analysis{}

	// S0: Load & prepare
	start := time.Now()
	table, err := s0_data.ReadTable(inputPath)
	if err != nil {
		return nil, fmt.Errorf("S0 failed: %w", err)
	}
	customers, err := s0_data.Prepare(table)
	if err != nil {
		return nil, fmt.Errorf("S0 failed: %w", err)
	}
	analysis.Customers = customers
	analysis.Stages = append(analysis.Stages, stageResult(contracts.StageData, table.Len(), len(customers), start))
	o.logger.WithStage("S0").WithFields(map[string]interface{}{
		"input": inputPath,
		"rows":  len(customers),
	}).Info("Input prepared")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// S1: RFM metrics
	start = time.Now()
	records := s1_rfm.NewCalculator(analysisDate, o.logger).Calculate(customers)
	analysis.Records = records
	analysis.Stages = append(analysis.Stages, stageResult(contracts.StageRFM, len(customers), len(records), start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// S2: Scoring & segments
	start = time.Now()
	scored, err := o.scorer.Score(records)
	if err != nil {
		return nil, fmt.Errorf("S2 failed: %w", err)
	}
	analysis.Scored = scored
	analysis.Stages = append(analysis.Stages, stageResult(contracts.StageScoring, len(records), len(scored), start))

	return analysis, nil
}

// Run executes the complete pipeline
// S0 → S1 → S2 → S3 (→ persist)
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	if config.RunID == "" {
		config.RunID = uuid.NewString()
	}
	if config.Campaigns == nil {
		config.Campaigns = campaign.Default()
	}

	result := &RunResult{
		RunID:           config.RunID,
		AnalysisDate:    config.AnalysisDate,
		CompletedStages: make([]string, 0, 5),
	}
	fail := func(err error) (*RunResult, error) {
		result.Error = err
		result.Duration = time.Since(startTime)
		o.logger.WithError(err).WithField("run_id", config.RunID).Error("Pipeline run failed")
		return result, err
	}

	if config.Persist {
		if o.store == nil {
			return fail(ErrNoStore)
		}
		// rfm.runs.run_id 는 UUID 컬럼
		if _, err := uuid.Parse(config.RunID); err != nil {
			return fail(fmt.Errorf("run id %q: %w", config.RunID, err))
		}
	}
	if err := campaign.Validate(config.Campaigns); err != nil {
		return fail(fmt.Errorf("campaigns: %w", err))
	}
	hash, err := campaign.Hash(config.Campaigns)
	if err != nil {
		return fail(fmt.Errorf("campaigns hash: %w", err))
	}
	result.CampaignsHash = hash

	o.logger.WithFields(map[string]interface{}{
		"run_id":         config.RunID,
		"analysis_date":  config.AnalysisDate.Format("2006-01-02"),
		"input":          config.InputPath,
		"output_dir":     config.OutputDir,
		"campaigns":      len(config.Campaigns.Campaigns),
		"campaigns_hash": hash,
		"persist":        config.Persist,
	}).Info("Starting pipeline run")

	analysis, err := o.Analyze(ctx, config.InputPath, config.AnalysisDate)
	if err != nil {
		return fail(err)
	}
	result.Analysis = analysis
	result.Stages = append(result.Stages, analysis.Stages...)
	result.CompletedStages = append(result.CompletedStages, "S0:Data", "S1:RFM", "S2:Scoring")

	// S3: Selection & export
	start := time.Now()
	selections, exports, err := o.runS3(ctx, config, analysis)
	if err != nil {
		return fail(fmt.Errorf("S3 failed: %w", err))
	}
	result.Exports = exports
	exported := 0
	for _, e := range exports {
		exported += e.Rows
	}
	result.Stages = append(result.Stages, stageResult(contracts.StageSelection, len(analysis.Scored), exported, start))
	result.CompletedStages = append(result.CompletedStages, "S3:Selection")

	// Persist (optional)
	if config.Persist {
		if err := o.persist(ctx, config, hash, analysis, selections); err != nil {
			return fail(fmt.Errorf("persist failed: %w", err))
		}
		result.Persisted = true
		result.CompletedStages = append(result.CompletedStages, "Persist")
	}

	result.Success = true
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"run_id":      config.RunID,
		"customers":   len(analysis.Scored),
		"exports":     len(exports),
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("Pipeline run completed")

	return result, nil
}

// runS3 selects and exports every campaign. Campaigns are independent and
// run concurrently; results keep campaign order.
func (o *Orchestrator) runS3(ctx context.Context, config RunConfig, analysis *Analysis) ([]*s3_selection.Selection, []*s3_selection.ExportResult, error) {
	campaigns := config.Campaigns.Campaigns
	selections := make([]*s3_selection.Selection, len(campaigns))
	exports := make([]*s3_selection.ExportResult, len(campaigns))

	g, gctx := errgroup.WithContext(ctx)
	for i := range campaigns {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			sel := o.selector.Select(campaigns[i], analysis.Scored, analysis.Customers)
			res, err := s3_selection.Export(config.OutputDir, sel)
			if err != nil {
				return fmt.Errorf("campaign %s: %w", campaigns[i].Name, err)
			}

			selections[i] = sel
			exports[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// 실패한 실행은 일부 캠페인 파일만 남기지 않음
		for _, res := range exports {
			if res != nil {
				_ = os.Remove(res.Path)
			}
		}
		return nil, nil, err
	}
	return selections, exports, nil
}

func (o *Orchestrator) persist(ctx context.Context, config RunConfig, hash string, analysis *Analysis, selections []*s3_selection.Selection) error {
	if err := o.store.EnsureSchema(ctx); err != nil {
		return err
	}

	run := s3_selection.RunRecord{
		RunID:         config.RunID,
		AnalysisDate:  config.AnalysisDate,
		InputPath:     config.InputPath,
		CampaignsHash: hash,
	}
	if err := o.store.SaveRun(ctx, run, analysis.Scored); err != nil {
		return err
	}

	for _, sel := range selections {
		if err := o.store.SaveCampaign(ctx, config.RunID, sel); err != nil {
			return fmt.Errorf("campaign %s: %w", sel.Campaign.Name, err)
		}
	}

	o.logger.WithField("run_id", config.RunID).Info("Run persisted")
	return nil
}

func stageResult(stage contracts.Stage, in, out int, start time.Time) contracts.StageResult {
	return contracts.StageResult{
		Stage:       stage,
		InputCount:  in,
		OutputCount: out,
		Duration:    time.Since(start).Milliseconds(),
	}
}
