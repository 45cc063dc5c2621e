package commands

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/wonny/rfm/backend/internal/s3_selection"
)

var (
	migrateDown    bool
	migrateSteps   int
	migrateVersion bool
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "결과 저장 스키마 마이그레이션",
	Long: `rfm 스키마(runs, customer_scores, campaign_members)를 마이그레이션합니다.
기본 동작은 모든 up 마이그레이션 적용입니다.

Example:
  go run ./cmd/rfm migrate
  go run ./cmd/rfm migrate --version
  go run ./cmd/rfm migrate --down`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "run all down migrations")
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of migrations (positive=up, negative=down)")
	migrateCmd.Flags().BoolVar(&migrateVersion, "version", false, "print current migration version")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Database.Enabled() {
		return errors.New("DATABASE_URL is required for migrate")
	}

	source, err := iofs.New(s3_selection.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	switch {
	case migrateVersion:
		v, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
		return nil
	case migrateSteps != 0:
		err = m.Steps(migrateSteps)
	case migrateDown:
		err = m.Down()
	default:
		err = m.Up()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	PrintSuccess("migrations applied successfully")
	return nil
}
