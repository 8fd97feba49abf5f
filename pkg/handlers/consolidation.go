package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vitalpark/fleet-engine/pkg/apperrors"
	"github.com/vitalpark/fleet-engine/pkg/config"
	"github.com/vitalpark/fleet-engine/pkg/engine"
	"github.com/vitalpark/fleet-engine/pkg/models"
	"github.com/vitalpark/fleet-engine/pkg/report"
	"github.com/vitalpark/fleet-engine/pkg/repositories"
)

// topReplacementCount is how many assets /api/assets/top returns.
const topReplacementCount = 5

// ConsolidationHandler exposes the consolidation trigger and the read
// operations over the last successful run.
type ConsolidationHandler struct {
	cfg      *config.Config
	logger   *zap.Logger
	pipeline *engine.Pipeline
	// repo is nil when persistence is disabled; the service then runs
	// file-to-file only.
	repo repositories.ConsolidatedAssetRepository
	// now is injected so tests can fix the scoring reference time.
	now func() time.Time

	mu      sync.RWMutex
	last    *engine.RunResult
	lastNow time.Time
}

// NewConsolidationHandler creates a new ConsolidationHandler.
func NewConsolidationHandler(cfg *config.Config, pipeline *engine.Pipeline, repo repositories.ConsolidatedAssetRepository, logger *zap.Logger) *ConsolidationHandler {
	return &ConsolidationHandler{
		cfg:      cfg,
		logger:   logger,
		pipeline: pipeline,
		repo:     repo,
		now:      time.Now,
	}
}

// RegisterRoutes registers the consolidation routes on the given mux.
func (h *ConsolidationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/consolidation/run", h.Run)
	mux.HandleFunc("/api/assets", h.Assets)
	mux.HandleFunc("/api/assets/top", h.TopAssets)
	mux.HandleFunc("/api/fleet/stats", h.FleetStats)
	mux.HandleFunc("/api/budget/plan", h.BudgetPlan)
}

// Run handles POST /api/consolidation/run. The run is synchronous: the
// response carries the complete run summary, and both output tables have
// been replaced by the time it returns.
func (h *ConsolidationHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	now := h.now()
	result, err := h.pipeline.Run(r.Context(), now)
	if err != nil {
		var schemaErr *apperrors.SchemaError
		if errors.As(err, &schemaErr) {
			_ = ErrorResponse(w, http.StatusUnprocessableEntity, "schema_error", schemaErr.Error())
			return
		}
		h.logger.Error("Consolidation run failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "consolidation_failed", err.Error())
		return
	}

	if err := report.WriteUnifiedOrders(h.cfg.Output.UnifiedOrdersPath, result.UnifiedOrders); err != nil {
		h.logger.Error("Failed to write unified orders table", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "report_write_failed", err.Error())
		return
	}
	if err := report.WriteConsolidatedAssets(h.cfg.Output.ConsolidatedAssetsPath, result.Assets); err != nil {
		h.logger.Error("Failed to write consolidated assets table", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "report_write_failed", err.Error())
		return
	}

	if h.repo != nil {
		if err := h.repo.ReplaceAll(r.Context(), result.Summary.RunID, result.Assets); err != nil {
			h.logger.Error("Failed to persist consolidated assets", zap.Error(err))
			_ = ErrorResponse(w, http.StatusInternalServerError, "persistence_failed", err.Error())
			return
		}
	}

	h.mu.Lock()
	h.last = result
	h.lastNow = now
	h.mu.Unlock()

	if err := WriteJSON(w, http.StatusOK, result.Summary); err != nil {
		h.logger.Error("Failed to encode run summary", zap.Error(err))
	}
}

// Assets handles GET /api/assets?limit=N, returning the ranked consolidated
// table from the last successful run.
func (h *ConsolidationHandler) Assets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	assets, ok := h.lastAssets()
	if !ok {
		_ = ErrorResponse(w, http.StatusConflict, "no_consolidation", apperrors.ErrNoConsolidation.Error())
		return
	}
	if limit > 0 && limit < len(assets) {
		assets = assets[:limit]
	}
	if err := WriteJSON(w, http.StatusOK, assets); err != nil {
		h.logger.Error("Failed to encode assets", zap.Error(err))
	}
}

// TopAssets handles GET /api/assets/top, returning the highest-priority
// replacement candidates.
func (h *ConsolidationHandler) TopAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	assets, ok := h.lastAssets()
	if !ok {
		_ = ErrorResponse(w, http.StatusConflict, "no_consolidation", apperrors.ErrNoConsolidation.Error())
		return
	}
	if len(assets) > topReplacementCount {
		assets = assets[:topReplacementCount]
	}
	if err := WriteJSON(w, http.StatusOK, assets); err != nil {
		h.logger.Error("Failed to encode top assets", zap.Error(err))
	}
}

// FleetStats handles GET /api/fleet/stats.
func (h *ConsolidationHandler) FleetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	h.mu.RLock()
	last, lastNow := h.last, h.lastNow
	h.mu.RUnlock()
	if last == nil {
		_ = ErrorResponse(w, http.StatusConflict, "no_consolidation", apperrors.ErrNoConsolidation.Error())
		return
	}

	stats := engine.ComputeFleetStats(last.Assets, lastNow)
	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to encode fleet stats", zap.Error(err))
	}
}

// BudgetPlan handles GET /api/budget/plan?budget=X, simulating a greedy
// replacement plan over the current priority order.
func (h *ConsolidationHandler) BudgetPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	budget, err := decimal.NewFromString(r.URL.Query().Get("budget"))
	if err != nil || budget.IsNegative() {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_budget", "budget must be a non-negative number")
		return
	}

	assets, ok := h.lastAssets()
	if !ok {
		_ = ErrorResponse(w, http.StatusConflict, "no_consolidation", apperrors.ErrNoConsolidation.Error())
		return
	}

	plan := engine.PlanBudget(assets, budget)
	if err := WriteJSON(w, http.StatusOK, plan); err != nil {
		h.logger.Error("Failed to encode budget plan", zap.Error(err))
	}
}

func (h *ConsolidationHandler) lastAssets() ([]models.ConsolidatedAsset, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.last == nil {
		return nil, false
	}
	return h.last.Assets, true
}
