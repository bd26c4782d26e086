// Package api provides the HTTP and WebSocket surface of the risk engine.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/atlas-desktop/risk-engine/internal/config"
	"github.com/atlas-desktop/risk-engine/internal/regime"
	"github.com/atlas-desktop/risk-engine/internal/risk"
	"github.com/atlas-desktop/risk-engine/internal/stats"
	"github.com/atlas-desktop/risk-engine/internal/volatility"
	"github.com/atlas-desktop/risk-engine/pkg/types"
)

// Server is the HTTP/WebSocket API server. Pipelines are built once per
// profile at startup; each request picks one and runs it, so requests share
// nothing mutable and can be served concurrently.
type Server struct {
	logger         *zap.Logger
	config         *types.ServerConfig
	router         *mux.Router
	httpServer     *http.Server
	hub            *Hub
	metrics        *Metrics
	profiles       *config.File
	defaultProfile string
	pipelines      map[string]*risk.Pipeline
}

// NewServer creates the API server over the loaded risk profiles.
func NewServer(logger *zap.Logger, cfg *types.ServerConfig, profiles *config.File, defaultProfile string) (*Server, error) {
	pipelines := make(map[string]*risk.Pipeline, len(profiles.Profiles))
	for name := range profiles.Profiles {
		riskCfg, err := profiles.Profile(name)
		if err != nil {
			return nil, err
		}
		pipeline, err := risk.NewPipeline(logger.Named("pipeline"), riskCfg)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		pipelines[name] = pipeline
	}
	if _, ok := pipelines[defaultProfile]; !ok {
		return nil, fmt.Errorf("default profile %q not found in config", defaultProfile)
	}

	server := &Server{
		logger:         logger,
		config:         cfg,
		router:         mux.NewRouter(),
		hub:            NewHub(logger.Named("ws")),
		metrics:        NewMetrics(),
		profiles:       profiles,
		defaultProfile: defaultProfile,
		pipelines:      pipelines,
	}

	server.setupRoutes()
	return server, nil
}

// setupRoutes configures HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/v1/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api/v1/sizing/profiles", s.handleListProfiles).Methods("GET")
	s.router.HandleFunc("/api/v1/sizing/config", s.handleGetConfig).Methods("GET")
	s.router.HandleFunc("/api/v1/sizing/run", s.handleRunSizing).Methods("POST")
	s.router.HandleFunc("/api/v1/sizing/batch", s.handleBatchSizing).Methods("POST")

	if s.config.EnableMetrics {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	s.router.Handle(s.config.WebSocketPath, s.hub)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the hub and the HTTP server.
func (s *Server) Start() error {
	go s.hub.Run()

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(s.router)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting API server", zap.String("addr", addr))

	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// handleListProfiles returns the loaded profile names.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"profiles": s.profiles.Names(),
		"default":  s.defaultProfile,
	})
}

// handleGetConfig returns one profile's configuration.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("profile")
	if name == "" {
		name = s.defaultProfile
	}

	cfg, err := s.profiles.Profile(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": name,
		"config":  cfg,
	})
}

// SizingRequest is the payload of POST /api/v1/sizing/run. Prices are always
// required; the other series are only needed when the selected profile
// enables the stage that consumes them. Volatility entries may be null for
// warm-up bars; when the field is omitted entirely the server estimates
// volatility from the prices with the profile's lookback.
type SizingRequest struct {
	Symbol       string                 `json:"symbol"`
	Profile      string                 `json:"profile,omitempty"`
	Prices       []types.PricePoint     `json:"prices"`
	Volatility   []*float64             `json:"volatility,omitempty"`
	Regimes      *RegimeLabelsPayload   `json:"regimes,omitempty"`
	Cycle        *types.CycleFeatures   `json:"cycle,omitempty"`
	TradeStats   *types.TradeStatistics `json:"trade_stats,omitempty"`
	TradeReturns []float64              `json:"trade_returns,omitempty"`
	IncludeTrace bool                   `json:"include_trace,omitempty"`
}

// RegimeLabelsPayload carries the regime labels as loosely-typed strings;
// they are validated against the closed enumerations at this boundary.
type RegimeLabelsPayload struct {
	Volatility []string `json:"volatility"`
	Trend      []string `json:"trend"`
	CyclePhase []string `json:"cycle_phase"`
}

// SizingResponse is the result of a completed sizing run.
type SizingResponse struct {
	ID      string                    `json:"id"`
	Symbol  string                    `json:"symbol,omitempty"`
	Profile string                    `json:"profile"`
	Bars    int                       `json:"bars"`
	Stages  []string                  `json:"stages"`
	Series  *types.PositionSizeSeries `json:"series"`
	Trace   map[string][]float64      `json:"trace,omitempty"`
}

// handleRunSizing computes a position size series for the request.
func (s *Server) handleRunSizing(w http.ResponseWriter, r *http.Request) {
	var req SizingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, status, err := s.runSizing(&req)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// runSizing executes one sizing run, recording metrics and broadcasting the
// outcome. On failure it returns the HTTP status the error maps to.
func (s *Server) runSizing(req *SizingRequest) (*SizingResponse, int, error) {
	profileName := req.Profile
	if profileName == "" {
		profileName = s.defaultProfile
	}
	pipeline, ok := s.pipelines[profileName]
	if !ok {
		return nil, http.StatusNotFound, fmt.Errorf("unknown risk profile %q", profileName)
	}
	if len(req.Prices) == 0 {
		return nil, http.StatusBadRequest, fmt.Errorf("prices are required")
	}

	inputs, err := s.buildInputs(pipeline.Config(), req)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	started := time.Now()
	result, err := pipeline.Run(inputs)
	s.metrics.runDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		cause := errorCause(err)
		s.metrics.runErrors.WithLabelValues(cause).Inc()
		s.logger.Warn("Sizing run failed",
			zap.String("profile", profileName),
			zap.String("cause", cause),
			zap.Error(err),
		)
		s.hub.Broadcast(MsgTypeRunError, map[string]interface{}{
			"profile": profileName,
			"symbol":  req.Symbol,
			"cause":   cause,
		})
		return nil, statusFor(err), err
	}

	s.metrics.runsTotal.WithLabelValues(profileName).Inc()
	s.metrics.barsProcessed.Add(float64(result.Series.Len()))

	resp := &SizingResponse{
		ID:      uuid.New().String(),
		Symbol:  req.Symbol,
		Profile: profileName,
		Bars:    result.Series.Len(),
		Stages:  result.Stages,
		Series:  result.Series,
	}
	if req.IncludeTrace {
		resp.Trace = result.Trace
	}

	s.hub.Broadcast(MsgTypeRunComplete, map[string]interface{}{
		"id":      resp.ID,
		"profile": profileName,
		"symbol":  req.Symbol,
		"bars":    resp.Bars,
	})

	return resp, http.StatusOK, nil
}

// buildInputs converts the wire payload into typed, validated pipeline
// inputs. Inputs the profile does not need are passed through as nil.
func (s *Server) buildInputs(cfg risk.Config, req *SizingRequest) (*risk.Inputs, error) {
	prices := &types.PriceSeries{Symbol: req.Symbol, Points: req.Prices}
	inputs := &risk.Inputs{Prices: prices}

	if req.Volatility != nil {
		values := make([]float64, len(req.Volatility))
		for i, v := range req.Volatility {
			if v == nil {
				values[i] = math.NaN()
			} else {
				values[i] = *v
			}
		}
		inputs.Volatility = &types.VolatilityEstimate{Values: values}
	} else if cfg.UseVolatilitySizing {
		estimator, err := volatility.NewEstimator(s.logger.Named("vol"), cfg.VolLookback)
		if err != nil {
			return nil, err
		}
		inputs.Volatility = estimator.Estimate(prices)
	}

	if req.Regimes != nil {
		labels, err := parseRegimeLabels(req.Regimes)
		if err != nil {
			return nil, err
		}
		inputs.Regimes = labels
	}

	inputs.Cycle = req.Cycle

	if req.TradeStats != nil {
		inputs.Stats = req.TradeStats
	} else if len(req.TradeReturns) > 0 {
		inputs.Stats = stats.Aggregate(req.TradeReturns)
	}

	return inputs, nil
}

// parseRegimeLabels validates the boundary strings against the closed
// enumerations so malformed labels fail here, not mid-pipeline.
func parseRegimeLabels(p *RegimeLabelsPayload) (*regime.Labels, error) {
	labels := &regime.Labels{
		Volatility: make([]regime.VolLabel, len(p.Volatility)),
		Trend:      make([]regime.TrendLabel, len(p.Trend)),
		CyclePhase: make([]regime.CycleLabel, len(p.CyclePhase)),
	}

	for i, s := range p.Volatility {
		label, err := regime.ParseVolLabel(s)
		if err != nil {
			return nil, fmt.Errorf("regimes.volatility[%d]: %w", i, err)
		}
		labels.Volatility[i] = label
	}
	for i, s := range p.Trend {
		label, err := regime.ParseTrendLabel(s)
		if err != nil {
			return nil, fmt.Errorf("regimes.trend[%d]: %w", i, err)
		}
		labels.Trend[i] = label
	}
	for i, s := range p.CyclePhase {
		label, err := regime.ParseCycleLabel(s)
		if err != nil {
			return nil, fmt.Errorf("regimes.cycle_phase[%d]: %w", i, err)
		}
		labels.CyclePhase[i] = label
	}

	return labels, nil
}

// errorCause maps an engine error to its taxonomy name for metrics.
func errorCause(err error) string {
	switch {
	case errors.Is(err, risk.ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, risk.ErrUnknownRegimeLabel):
		return "unknown_regime_label"
	case errors.Is(err, risk.ErrInsufficientStatistics):
		return "insufficient_statistics"
	case errors.Is(err, risk.ErrMissingInput):
		return "missing_input"
	case errors.Is(err, risk.ErrMisalignedInput):
		return "misaligned_input"
	default:
		return "internal"
	}
}

// statusFor maps an engine error to an HTTP status. Contract violations in
// the request shape are 400s; semantically unusable inputs are 422s.
func statusFor(err error) int {
	switch {
	case errors.Is(err, risk.ErrMissingInput), errors.Is(err, risk.ErrMisalignedInput),
		errors.Is(err, risk.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, risk.ErrUnknownRegimeLabel), errors.Is(err, risk.ErrInsufficientStatistics):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("Failed to encode response", zap.Error(err))
	}
}
