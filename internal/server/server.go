// Package server exposes the method-selection service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/feedbridge/glsbridge/internal/session"
	"github.com/feedbridge/glsbridge/internal/telemetry"
	"github.com/feedbridge/glsbridge/pkg/applier"
	"github.com/feedbridge/glsbridge/pkg/applier/gls"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the method bridge.
type Server struct {
	port     int
	registry *applier.Registry
	sessions *session.Store
	assigner applier.MethodAssigner
	metrics  *telemetry.Metrics
	logger   *otelzap.Logger
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance. The metrics are shared with the rest of
// the service and registered once by the caller.
func New(cfg Config, registry *applier.Registry, sessions *session.Store, metrics *telemetry.Metrics, logger *otelzap.Logger) *Server {
	return &Server{
		port:     cfg.Port,
		registry: registry,
		sessions: sessions,
		assigner: newMethodAssigner(),
		metrics:  metrics,
		logger:   logger,
	}
}

// Handler builds the routed HTTP handler. Exposed separately from Run so
// tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/api/v1/appliers", s.handleAppliers)
	e.POST("/api/v1/shipping-methods/apply", s.handleApply)
	e.POST("/api/v1/shipping-methods/commit", s.handleCommit)

	return e
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	failures := s.registry.ProbeAll(c.Request().Context())
	if len(failures) > 0 {
		detail := make(map[string]string, len(failures))
		for code, err := range failures {
			detail[code] = err.Error()
		}
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":   "degraded",
			"failures": detail,
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAppliers(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"appliers": s.registry.Names(),
	})
}

// ============================================================================
// Apply endpoint
// ============================================================================

type orderPayload struct {
	ID                     string `json:"id"`
	StoreID                string `json:"store_id"`
	MarketplaceName        string `json:"marketplace_name"`
	MarketplaceOrderNumber string `json:"marketplace_order_number"`
}

type marketplaceAddressPayload struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Company     string `json:"company"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Postcode    string `json:"postcode"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
	MiscData    string `json:"misc_data"`
}

type quoteAddressPayload struct {
	Company     string   `json:"company"`
	Street      []string `json:"street"`
	City        string   `json:"city"`
	Postcode    string   `json:"postcode"`
	CountryCode string   `json:"country_code"`
}

type applyRequest struct {
	SessionID            string                    `json:"session_id"`
	Order                orderPayload              `json:"order"`
	ShippingAddress      marketplaceAddressPayload `json:"shipping_address"`
	QuoteAddress         quoteAddressPayload       `json:"quote_address"`
	AvailableMethodCodes []string                  `json:"available_method_codes"`
	Settings             map[string]any            `json:"settings"`
}

type applyResponse struct {
	Applied        bool                  `json:"applied"`
	SessionID      string                `json:"session_id"`
	CarrierCode    string                `json:"carrier_code,omitempty"`
	MethodCode     string                `json:"method_code,omitempty"`
	CarrierTitle   string                `json:"carrier_title,omitempty"`
	MethodTitle    string                `json:"method_title,omitempty"`
	ShippingMethod string                `json:"shipping_method,omitempty"`
	RelayPointID   string                `json:"relay_point_id,omitempty"`
	RelayPoint     *gls.RelayPointRecord `json:"relay_point,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// handleApply runs one full evaluation: select a method, assign it, commit
// the relay point data. No applicable method is a normal outcome, reported
// with applied=false.
func (s *Server) handleApply(c echo.Context) error {
	var req applyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	order := &applier.MarketplaceOrder{
		ID:                     req.Order.ID,
		StoreID:                req.Order.StoreID,
		MarketplaceName:        req.Order.MarketplaceName,
		MarketplaceOrderNumber: req.Order.MarketplaceOrderNumber,
	}
	shipping := &applier.MarketplaceAddress{
		FirstName:   req.ShippingAddress.FirstName,
		LastName:    req.ShippingAddress.LastName,
		Company:     req.ShippingAddress.Company,
		Street:      req.ShippingAddress.Street,
		City:        req.ShippingAddress.City,
		Postcode:    req.ShippingAddress.Postcode,
		CountryCode: req.ShippingAddress.CountryCode,
		Phone:       req.ShippingAddress.Phone,
		MiscData:    req.ShippingAddress.MiscData,
	}
	quote := &applier.QuoteAddress{
		Company:     req.QuoteAddress.Company,
		Street:      req.QuoteAddress.Street,
		City:        req.QuoteAddress.City,
		Postcode:    req.QuoteAddress.Postcode,
		CountryCode: req.QuoteAddress.CountryCode,
	}

	sess := s.sessions.Session(sessionID)
	collaborators := applier.Collaborators{
		Methods:  applier.MethodCodes(req.AvailableMethodCodes),
		Assigner: s.assigner,
		Session:  sess,
	}
	settings := applier.Values(req.Settings)

	started := time.Now()
	ctx := c.Request().Context()

	result, evaluation, errs := s.registry.ApplyFirst(ctx, collaborators, order, shipping, quote, settings)
	for _, err := range errs {
		s.logger.Warn("applier evaluation failed", zap.Error(err))

		carrier := "unknown"
		var evalErr *applier.EvaluationError
		if errors.As(err, &evalErr) {
			carrier = evalErr.Carrier
		}
		s.metrics.RecordApplierError(carrier)
	}

	if result == nil {
		// A relay record written by an earlier evaluation in the same session
		// must not survive an outcome with no applicable method.
		sess.SetData(gls.SessionKeyRelayPointData, gls.RelayPointRecord{})
		s.metrics.RecordSelection("none", "skipped", gls.CarrierCode, time.Since(started).Seconds())
		return c.JSON(http.StatusOK, applyResponse{Applied: false, SessionID: sessionID})
	}

	if err := evaluation.Commit(ctx, quote, result, settings); err != nil {
		s.logger.Error("commit failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Failed to commit relay point data"})
	}

	variant := gls.BaseCodeOfMethod(result.MethodCode)
	if variant == "" {
		variant = "unknown"
	}
	s.metrics.RecordSelection(variant, "applied", result.CarrierCode, time.Since(started).Seconds())

	resp := applyResponse{
		Applied:        true,
		SessionID:      sessionID,
		CarrierCode:    result.CarrierCode,
		MethodCode:     result.MethodCode,
		CarrierTitle:   result.CarrierTitle,
		MethodTitle:    result.MethodTitle,
		ShippingMethod: quote.ShippingMethod,
		RelayPointID:   result.AdditionalData(gls.KeyRelayPointID),
	}

	if value, ok := sess.Data(gls.SessionKeyRelayPointData); ok {
		if record, ok := value.(gls.RelayPointRecord); ok && record.ID != "" {
			resp.RelayPoint = &record
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// ============================================================================
// Commit endpoint
// ============================================================================

type commitRequest struct {
	SessionID    string              `json:"session_id"`
	CarrierCode  string              `json:"carrier_code"`
	MethodCode   string              `json:"method_code"`
	RelayPointID string              `json:"relay_point_id"`
	QuoteAddress quoteAddressPayload `json:"quote_address"`
	Settings     map[string]any      `json:"settings"`
}

type commitResponse struct {
	Committed  bool                  `json:"committed"`
	SessionID  string                `json:"session_id"`
	RelayPoint *gls.RelayPointRecord `json:"relay_point,omitempty"`
}

// handleCommit re-runs the commit stage for a held session, so callers can
// refresh the relay point record within the session TTL without repeating the
// whole selection. Committing without a relay point ID resets the record.
func (s *Server) handleCommit(c echo.Context) error {
	var req commitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "session_id is required"})
	}

	carrierCode := req.CarrierCode
	if carrierCode == "" {
		carrierCode = gls.CarrierCode
	}
	a, err := s.registry.Get(carrierCode)
	if err != nil {
		return c.JSON(http.StatusNotFound, errorResponse{Message: "Unknown carrier: " + carrierCode})
	}

	quote := &applier.QuoteAddress{
		Company:     req.QuoteAddress.Company,
		Street:      req.QuoteAddress.Street,
		City:        req.QuoteAddress.City,
		Postcode:    req.QuoteAddress.Postcode,
		CountryCode: req.QuoteAddress.CountryCode,
	}

	sess := s.sessions.Session(req.SessionID)
	evaluation := a.Begin(applier.Collaborators{
		Methods:  applier.MethodCodes(nil),
		Assigner: s.assigner,
		Session:  sess,
	})

	result := &applier.Result{CarrierCode: carrierCode, MethodCode: req.MethodCode}
	if req.RelayPointID != "" {
		result.SetAdditionalData(gls.KeyRelayPointID, req.RelayPointID)
	}

	if err := evaluation.Commit(c.Request().Context(), quote, result, applier.Values(req.Settings)); err != nil {
		s.logger.Error("commit failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Failed to commit relay point data"})
	}

	resp := commitResponse{Committed: true, SessionID: req.SessionID}
	if value, ok := sess.Data(gls.SessionKeyRelayPointData); ok {
		if record, ok := value.(gls.RelayPointRecord); ok && record.ID != "" {
			resp.RelayPoint = &record
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// newMethodAssigner builds the platform-side assignment operation: it stamps
// the qualified method code on the quote address and reports the assignment
// back as a result.
func newMethodAssigner() applier.MethodAssigner {
	return applier.AssignFunc(func(
		_ context.Context,
		carrierCode string,
		methodCode string,
		_ *applier.MarketplaceOrder,
		quote *applier.QuoteAddress,
		settings applier.Settings,
	) (*applier.Result, error) {
		cfg := gls.ConfigFromSettings(settings)
		quote.ShippingMethod = carrierCode + "_" + methodCode

		return &applier.Result{
			CarrierCode:  carrierCode,
			MethodCode:   methodCode,
			CarrierTitle: cfg.DefaultCarrierTitle,
			MethodTitle:  cfg.DefaultMethodTitle,
		}, nil
	})
}
