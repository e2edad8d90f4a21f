package api

import (
	"strings"
	"time"

	models "github.com/gannontraynor/marketPulse/internal/domain/models"
	domrepo "github.com/gannontraynor/marketPulse/internal/domain/repository"
	"github.com/gannontraynor/marketPulse/internal/service/metrics"
	"github.com/gannontraynor/marketPulse/internal/service/ratelimit"
	"github.com/gannontraynor/marketPulse/internal/usecase"
	xhttp "github.com/gannontraynor/marketPulse/pkg/http"
	xlogger "github.com/gannontraynor/marketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsEchoHandler exposes the volatility signal API over Echo.
type SignalsEchoHandler struct {
	logger *xlogger.Logger
	svc    *usecase.SignalService
	store  domrepo.BarStore
	rl     *ratelimit.Limiter
}

func NewSignalsEchoHandler(logger *xlogger.Logger, svc *usecase.SignalService, store domrepo.BarStore) *SignalsEchoHandler {
	metrics.Register()
	return &SignalsEchoHandler{logger: logger, svc: svc, store: store, rl: ratelimit.New()}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api/signals")
	g.GET("/volatility/:symbol", h.Volatility)
	g.GET("/today", h.Today)
	g.GET("/transitions", h.Transitions)
	g.GET("/transitions/:symbol", h.SymbolTransitions)
}

// Health reports process liveness and bar store reachability.
func (h *SignalsEchoHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok", "store": "ok"}
	if err := h.store.Health(c.Request().Context()); err != nil {
		status["store"] = err.Error()
	}
	return xhttp.SuccessResponse(c, status)
}

// Volatility returns the point-in-time signal for one symbol.
func (h *SignalsEchoHandler) Volatility(c echo.Context) error {
	start := time.Now()
	endpoint := "volatility"
	defer func() { metrics.SignalLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if tmr := h.tooManyRequests(c, endpoint, 10, 5); tmr != nil {
		return tmr
	}

	res, err := h.svc.ComputeSignal(c.Request().Context(), req.Symbol, req.Lookback)
	if err != nil {
		metrics.SignalErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("volatility usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Today scans the configured symbol universe.
func (h *SignalsEchoHandler) Today(c echo.Context) error {
	start := time.Now()
	endpoint := "today"
	defer func() { metrics.SignalLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.TodayRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if tmr := h.tooManyRequests(c, endpoint, 5, 2); tmr != nil {
		return tmr
	}

	rows, err := h.svc.TodaySignals(c.Request().Context(), req.Lookback)
	if err != nil {
		metrics.SignalErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("today usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Transitions scans every configured symbol for regime changes.
func (h *SignalsEchoHandler) Transitions(c echo.Context) error {
	start := time.Now()
	endpoint := "transitions"
	defer func() { metrics.SignalLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.TransitionsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if tmr := h.tooManyRequests(c, endpoint, 5, 2); tmr != nil {
		return tmr
	}

	bySymbol, err := h.svc.Transitions(c.Request().Context(), req.Lookback, req.Days)
	if err != nil {
		metrics.SignalErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("transitions usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	count := 0
	for _, events := range bySymbol {
		count += len(events)
	}
	return xhttp.SuccessResponse(c, &models.TransitionsResponse{
		Count:       count,
		Transitions: bySymbol,
	})
}

// SymbolTransitions returns regime-change events for one symbol.
func (h *SignalsEchoHandler) SymbolTransitions(c echo.Context) error {
	start := time.Now()
	endpoint := "symbol_transitions"
	defer func() { metrics.SignalLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SymbolTransitionsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if tmr := h.tooManyRequests(c, endpoint, 10, 5); tmr != nil {
		return tmr
	}

	series, events, err := h.svc.SymbolTransitionsWithSeries(c.Request().Context(), req.Symbol, req.Lookback, req.Days)
	if err != nil {
		metrics.SignalErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("symbol transitions usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, &models.SymbolTransitionsResponse{
		Symbol:      strings.ToUpper(req.Symbol),
		Days:        req.Days,
		Lookback:    req.Lookback,
		Transitions: events,
		Series:      series,
	})
}

// tooManyRequests applies a per-client token bucket; non-nil means rejected.
func (h *SignalsEchoHandler) tooManyRequests(c echo.Context, endpoint string, capacity, refillPerSec float64) error {
	if h.rl.Allow(c.RealIP()+":"+endpoint, capacity, refillPerSec) {
		return nil
	}
	if h.logger != nil {
		h.logger.Warn("rate limited",
			xlogger.String("endpoint", endpoint),
			xlogger.String("remote", c.RealIP()),
		)
	}
	return xhttp.TooManyRequestsResponse(c)
}
