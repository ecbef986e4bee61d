package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-projection/internal/config"
	"github.com/iwvelando/finance-projection/internal/insights"
	"github.com/iwvelando/finance-projection/internal/projection"
	"github.com/iwvelando/finance-projection/internal/store"
	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/datetime"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/mathutil"
	"github.com/iwvelando/finance-projection/pkg/recurrence"
	"github.com/iwvelando/finance-projection/pkg/validation"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Options configures the HTTP handler.
type Options struct {
	MaxUploadSize int64
	Version       string
	Projection    config.ProjectionConfig
	CorsOrigins   []string
	// Store backs the user routes. Without one they answer 503.
	Store store.Store
	// Now supplies the as-of date of user projections. Defaults to time.Now.
	Now func() time.Time
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	engine        *projection.Engine
	analyzer      *insights.Analyzer
	store         store.Store
	months        int
	lookback      int
	now           func() time.Time
}

// projectionRequest is the body of the stateless projection routes.
type projectionRequest struct {
	Portfolio          config.Portfolio `json:"portfolio"`
	Months             int              `json:"months"`
	PayoffTargetMonths int              `json:"payoff_target_months,omitempty"`
}

type recurringRequest struct {
	Transactions []config.TransactionConfig `json:"transactions"`
}

type recurringResponse struct {
	Recurring    []recurrence.Expense `json:"recurring_expenses"`
	TotalMonthly decimal.Decimal      `json:"total_monthly"`
}

// NewHandler constructs the HTTP handler that serves the projection API.
func NewHandler(logger *zap.Logger, opts Options) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Projection.Normalize()

	engine, err := projection.NewEngine(logger, projection.OptionsFromConfig(opts.Projection))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize projection engine: %w", err)
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: opts.MaxUploadSize,
		version:       version,
		engine:        engine,
		analyzer:      insights.NewAnalyzer(logger),
		store:         opts.Store,
		months:        opts.Projection.Months,
		lookback:      opts.Projection.LookbackMonths,
		now:           opts.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/projections/portfolio", h.handlePortfolio)
	mux.HandleFunc("/api/projections/cashflow", h.handleCashFlow)
	mux.HandleFunc("/api/recurring", h.handleRecurring)
	mux.HandleFunc("GET /api/users/{id}/projections", h.handleUserProjections)
	mux.HandleFunc("GET /api/users/{id}/insights", h.handleUserInsights)
	mux.HandleFunc("/api/version", h.handleVersion)

	var root http.Handler = mux
	if len(opts.CorsOrigins) > 0 {
		root = cors.New(cors.Options{
			AllowedOrigins: opts.CorsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
		}).Handler(mux)
	}
	return h.withRequestID(root), nil
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePortfolio"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()

	req, portfolio, ok := h.decodeProjection(w, r, op)
	if !ok {
		return
	}
	h.respondPortfolio(w, r, op, start, projection.PortfolioRequest{
		Portfolio:          portfolio,
		Months:             req.Months,
		PayoffTargetMonths: req.PayoffTargetMonths,
	})
}

func (h *handler) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCashFlow"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()

	req, portfolio, ok := h.decodeProjection(w, r, op)
	if !ok {
		return
	}
	h.respondCashFlow(w, r, op, start, projection.CashFlowRequest{Portfolio: portfolio, Months: req.Months})
}

func (h *handler) handleRecurring(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRecurring"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req recurringRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	txns := make([]finance.Transaction, 0, len(req.Transactions))
	for i, t := range req.Transactions {
		txn, err := t.ToTransaction(i)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
		txns = append(txns, txn)
	}

	items := recurrence.Detect(finance.FilterType(txns, finance.Expense))
	if items == nil {
		items = []recurrence.Expense{}
	}
	h.writeJSON(w, http.StatusOK, recurringResponse{
		Recurring:    items,
		TotalMonthly: mathutil.Cents(recurrence.TotalMonthly(items)),
	})
}

func (h *handler) handleUserProjections(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUserProjections"
	start := time.Now()

	months := h.months
	if raw := strings.TrimSpace(r.URL.Query().Get("months")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid months %q", raw), op)
			return
		}
		months = n
	}
	if months < 1 || months > constants.MaxHorizonMonths {
		h.respondError(w, r, http.StatusBadRequest,
			fmt.Sprintf("months must be between 1 and %d", constants.MaxHorizonMonths), op)
		return
	}
	mode := strings.TrimSpace(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = constants.ModePortfolio
	}
	if err := validation.ValidateMode(mode); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	portfolio, ok := h.loadPortfolio(w, r, op)
	if !ok {
		return
	}
	if mode == constants.ModeCashFlow {
		h.respondCashFlow(w, r, op, start, projection.CashFlowRequest{Portfolio: portfolio, Months: months})
		return
	}
	h.respondPortfolio(w, r, op, start, projection.PortfolioRequest{Portfolio: portfolio, Months: months})
}

func (h *handler) handleUserInsights(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUserInsights"
	portfolio, ok := h.loadPortfolio(w, r, op)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.analyzer.Generate(portfolio, portfolio.AsOf))
}

func (h *handler) loadPortfolio(w http.ResponseWriter, r *http.Request, op string) (finance.Portfolio, bool) {
	if h.store == nil {
		h.respondError(w, r, http.StatusServiceUnavailable, "no data store configured", op)
		return finance.Portfolio{}, false
	}
	userID := strings.TrimSpace(r.PathValue("id"))
	if userID == "" {
		h.respondError(w, r, http.StatusBadRequest, "missing user id", op)
		return finance.Portfolio{}, false
	}

	asOf := datetime.Day(h.now().UTC())
	portfolio, err := store.LoadPortfolio(r.Context(), h.store, userID, asOf, h.lookback)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		h.respondError(w, r, http.StatusNotFound, err.Error(), op)
		return finance.Portfolio{}, false
	case errors.Is(err, context.Canceled):
		return finance.Portfolio{}, false
	case err != nil:
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to load portfolio: %v", err), op)
		return finance.Portfolio{}, false
	}
	return portfolio, true
}

func (h *handler) decodeProjection(w http.ResponseWriter, r *http.Request, op string) (projectionRequest, finance.Portfolio, bool) {
	req := projectionRequest{Months: h.months}
	if !h.decodeBody(w, r, &req, op) {
		return req, finance.Portfolio{}, false
	}
	portfolio, err := req.Portfolio.ToFinanceAt(h.now())
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return req, finance.Portfolio{}, false
	}
	return req, portfolio, true
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondPortfolio(w http.ResponseWriter, r *http.Request, op string, start time.Time, req projection.PortfolioRequest) {
	result, err := h.engine.ProjectPortfolio(req)
	if err != nil {
		if errors.Is(err, finance.ErrInvalidProjectionInput) {
			h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
		h.logger.Error("portfolio projection failed, returning empty result",
			zap.String("op", op),
			zap.String("request_id", w.Header().Get(RequestIDHeader)),
			zap.Error(err),
		)
		result = emptyPortfolioResult(req, err)
	}

	h.logger.Info("portfolio projection computed",
		zap.String("op", op),
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
		zap.Int("months", result.Months),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) respondCashFlow(w http.ResponseWriter, r *http.Request, op string, start time.Time, req projection.CashFlowRequest) {
	result, err := h.engine.ProjectCashFlow(req)
	if err != nil {
		if errors.Is(err, finance.ErrInvalidProjectionInput) {
			h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
		h.logger.Error("cash flow projection failed, returning empty result",
			zap.String("op", op),
			zap.String("request_id", w.Header().Get(RequestIDHeader)),
			zap.Error(err),
		)
		result = emptyCashFlowResult(req, err)
	}

	h.logger.Info("cash flow projection computed",
		zap.String("op", op),
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
		zap.Int("months", result.Months),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, result)
}

func emptyPortfolioResult(req projection.PortfolioRequest, cause error) *projection.PortfolioResult {
	return &projection.PortfolioResult{
		AsOf:               req.Portfolio.AsOf.Format(constants.DateLayout),
		Months:             req.Months,
		Assets:             []projection.AssetProjection{},
		Debts:              []projection.DebtProjection{},
		MonthlyProjections: []projection.ProjectionPoint{},
		RiskAnalysis:       projection.RiskAnalysis{Level: projection.RiskUndefined},
		Recommendations:    []string{},
		Warnings:           []string{fmt.Sprintf("projection unavailable: %v", cause)},
	}
}

func emptyCashFlowResult(req projection.CashFlowRequest, cause error) *projection.CashFlowResult {
	return &projection.CashFlowResult{
		AsOf:               req.Portfolio.AsOf.Format(constants.DateLayout),
		Months:             req.Months,
		MonthlyProjections: []projection.CashFlowMonth{},
		Recurring:          []recurrence.Expense{},
		RiskAnalysis:       projection.RiskAnalysis{Level: projection.RiskUndefined},
		Recommendations:    []string{},
		Warnings:           []string{fmt.Sprintf("projection unavailable: %v", cause)},
	}
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("projection request failed",
		zap.String("op", op),
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
