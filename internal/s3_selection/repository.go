package s3_selection

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/rfm/backend/internal/contracts"
)

// RunRecord identifies one persisted segmentation run
type RunRecord struct {
	RunID         string
	AnalysisDate  time.Time
	InputPath     string
	CampaignsHash string
}

// Repository persists scores and campaign members to PostgreSQL
// ⭐ SSOT: 결과 저장소는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Migrations holds the versioned schema, applied by `rfm migrate` and EnsureSchema
//
//go:embed migrations/*.sql
var Migrations embed.FS

const schemaMigration = "migrations/000001_create_rfm_schema.up.sql"

// EnsureSchema creates the rfm schema and tables if missing
// 마이그레이션 SQL 은 IF NOT EXISTS 로 작성되어 반복 실행 가능
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schemaSQL, err := Migrations.ReadFile(schemaMigration)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.pool.Exec(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun stores the run header and every scored customer in one transaction
func (r *Repository) SaveRun(ctx context.Context, run RunRecord, scored []contracts.ScoredCustomer) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO rfm.runs (run_id, analysis_date, input_path, campaigns_hash, customers)
			VALUES ($1, $2, $3, $4, $5)
		`, run.RunID, run.AnalysisDate, run.InputPath, run.CampaignsHash, len(scored))
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		batch := &pgx.Batch{}
		for _, s := range scored {
			batch.Queue(`
				INSERT INTO rfm.customer_scores
					(run_id, master_id, recency, frequency, monetary,
					 recency_score, frequency_score, monetary_score, rf_score, segment)
				VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10)
			`, run.RunID, s.CustomerID, s.Recency, s.Frequency, s.Monetary.String(),
				s.RecencyScore, s.FrequencyScore, s.MonetaryScore, s.RFScore, s.Segment.String())
		}

		return execBatch(ctx, tx, batch, "customer_scores")
	})
}

// SaveCampaign stores the members of one campaign selection
func (r *Repository) SaveCampaign(ctx context.Context, runID string, sel *Selection) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i, row := range sel.Rows {
			batch.Queue(`
				INSERT INTO rfm.campaign_members (run_id, campaign, row_index, master_id, categories)
				VALUES ($1, $2, $3, $4, $5)
			`, runID, sel.Campaign.Name, i, row.CustomerID, row.InterestedInCategories)
		}
		return execBatch(ctx, tx, batch, "campaign_members")
	})
}

// SegmentCounts returns customers per segment for a persisted run
func (r *Repository) SegmentCounts(ctx context.Context, runID string) (map[contracts.Segment]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT segment, COUNT(*)
		FROM rfm.customer_scores
		WHERE run_id = $1
		GROUP BY segment
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[contracts.Segment]int)
	for rows.Next() {
		var seg string
		var n int
		if err := rows.Scan(&seg, &n); err != nil {
			return nil, err
		}
		counts[contracts.Segment(seg)] = n
	}
	return counts, rows.Err()
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, table string) error {
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}
	return br.Close()
}
