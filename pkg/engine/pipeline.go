package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitalpark/fleet-engine/pkg/config"
	"github.com/vitalpark/fleet-engine/pkg/ingest"
	"github.com/vitalpark/fleet-engine/pkg/models"
)

// Pipeline runs the full consolidation: four raw sources in, one scored and
// ranked equipment table out. A run is a pure function of the source files
// and the injected reference time; nothing is cached between runs.
type Pipeline struct {
	sources config.SourcesConfig
	weights ScoreWeights
	logger  *zap.Logger
}

// NewPipeline creates a Pipeline from configuration.
func NewPipeline(cfg *config.Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		sources: cfg.Sources,
		weights: ScoreWeights{
			Criticality: cfg.Scoring.WeightCriticality,
			Cost:        cfg.Scoring.WeightCost,
			Age:         cfg.Scoring.WeightAge,
			Frequency:   cfg.Scoring.WeightFrequency,
		},
		logger: logger,
	}
}

// RunResult is the complete output of one consolidation run.
type RunResult struct {
	Assets        []models.ConsolidatedAsset
	UnifiedOrders []models.ServiceOrder
	Summary       models.RunSummary
}

// Run executes the consolidation. Structural failures (missing file,
// missing column, empty inventory) abort with an error before any result is
// produced; row-level failures are counted into the summary instead.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*RunResult, error) {
	startedAt := time.Now()

	var legacy, recent []models.ServiceOrder
	var legacyReport, recentReport, critReport, invReport *ingest.SourceReport
	var entries []models.CriticalityEntry
	var inventory []models.InventoryAsset

	err := p.readSource(ctx, p.sources.LegacyOrdersPath, func(r io.Reader) (err error) {
		legacy, legacyReport, err = ingest.ReadLegacyOrders(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = p.readSource(ctx, p.sources.RecentOrdersPath, func(r io.Reader) (err error) {
		recent, recentReport, err = ingest.ReadRecentOrders(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = p.readSource(ctx, p.sources.CriticalityPath, func(r io.Reader) (err error) {
		entries, critReport, err = ingest.ReadCriticalityEntries(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = p.readSource(ctx, p.sources.InventoryPath, func(r io.Reader) (err error) {
		inventory, invReport, err = ingest.ReadInventoryAssets(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	unified := UnifyOrders(legacy, recent)
	lookup := BuildCriticalityLookup(entries)
	joined, err := JoinInventory(inventory, unified, lookup)
	if err != nil {
		return nil, fmt.Errorf("inventory join failed: %w", err)
	}
	assets := ScoreAndRank(joined.Assets, now, p.weights)

	summary := models.RunSummary{
		RunID:             uuid.New(),
		StartedAt:         startedAt,
		FinishedAt:        time.Now(),
		Assets:            len(assets),
		Orders:            len(unified.Orders),
		DuplicateOrders:   unified.DuplicatesRemoved,
		UnmatchedOrders:   unified.UnmatchedOrders,
		OrphanedOrders:    joined.OrphanedOrders,
		FlaggedDateOrders: unified.FlaggedDates,
		MalformedRows: map[string]int{
			ingest.SourceLegacyOrders: legacyReport.Malformed,
			ingest.SourceRecentOrders: recentReport.Malformed,
			ingest.SourceCriticality:  critReport.Malformed,
			ingest.SourceInventory:    invReport.Malformed,
		},
		UnweightedAssets:    joined.UnweightedAssets,
		NeverServicedAssets: joined.NeverServiced,
		TotalExternalCost:   unified.TotalExternalCost(),
	}
	for _, a := range assets {
		if a.AcquiredAt == nil {
			summary.AssetsWithoutAcquisitionDate++
		}
	}

	p.logger.Info("consolidation run complete",
		zap.String("run_id", summary.RunID.String()),
		zap.Int("assets", summary.Assets),
		zap.Int("orders", summary.Orders),
		zap.Int("duplicate_orders", summary.DuplicateOrders),
		zap.Int("unmatched_orders", summary.UnmatchedOrders),
		zap.Int("orphaned_orders", summary.OrphanedOrders),
		zap.Int("malformed_rows", summary.TotalMalformedRows()),
		zap.Int("unweighted_assets", summary.UnweightedAssets),
		zap.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)),
	)

	return &RunResult{
		Assets:        assets,
		UnifiedOrders: unified.Orders,
		Summary:       summary,
	}, nil
}

func (p *Pipeline) readSource(ctx context.Context, path string, parse func(io.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer f.Close()
	return parse(f)
}
