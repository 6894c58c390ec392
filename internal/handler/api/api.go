package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"PumpPulse/internal/domain/models"
	domrepo "PumpPulse/internal/domain/repository"
	icache "PumpPulse/internal/service/cache"
	"PumpPulse/internal/service/metrics"
	"PumpPulse/internal/service/ratelimit"
	xhttp "PumpPulse/pkg/http"
	applogger "PumpPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StreamStatus is the slice of the collector the health endpoint needs.
type StreamStatus interface {
	IsConnected() bool
}

// Handler exposes the pipeline state over HTTP.
type Handler struct {
	signals   domrepo.SignalRepository
	tickers   domrepo.TickerCache
	stream    StreamStatus
	respCache icache.BytesCache
	rl        *ratelimit.Limiter
	l         *applogger.Logger
}

// NewHandler creates the API handler.
func NewHandler(signals domrepo.SignalRepository, tickers domrepo.TickerCache, l *applogger.Logger) *Handler {
	metrics.Register()
	return &Handler{
		signals: signals,
		tickers: tickers,
		rl:      ratelimit.New(),
		l:       l,
	}
}

// SetResponseCache injects a short-TTL response cache.
func (h *Handler) SetResponseCache(c icache.BytesCache) { h.respCache = c }

// SetStream injects the stream collector for health reporting.
func (h *Handler) SetStream(s StreamStatus) { h.stream = s }

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.ListSignals)
	g.GET("/pumps", h.ListPumps)
	g.GET("/tickers", h.Tickers)
	g.GET("/health", h.Health)
}

// ListSignals returns signals filtered by status, newest first.
func (h *Handler) ListSignals(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("signals").Observe(time.Since(start).Seconds()) }()

	req := &models.ListSignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":signals", 10, 5) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	cacheKey := icache.SignalsKey(req.Status, req.Limit)
	if b, ok := h.cached(cacheKey); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	list, err := h.listByRequest(c, req)
	if err != nil {
		metrics.APIErrors.WithLabelValues("signals").Inc()
		h.l.Error("list signals failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("signal store unavailable").WithError(err))
	}

	return h.respond(c, cacheKey, &xhttp.ListDataResponse{Rows: list, Total: int64(len(list))})
}

func (h *Handler) listByRequest(c echo.Context, req *models.ListSignalsRequest) ([]*models.Signal, error) {
	ctx := c.Request().Context()

	if req.Status == "all" {
		statuses := []models.SignalStatus{
			models.StatusActive, models.StatusTP1Hit, models.StatusTP2Hit,
			models.StatusTP3Hit, models.StatusClosed, models.StatusCancelled,
		}
		merged := make([]*models.Signal, 0, req.Limit)
		for _, st := range statuses {
			part, err := h.signals.ListByStatus(ctx, st, req.Limit)
			if err != nil {
				return nil, err
			}
			merged = append(merged, part...)
		}
		sort.Slice(merged, func(i, j int) bool {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		})
		if len(merged) > req.Limit {
			merged = merged[:req.Limit]
		}
		return merged, nil
	}

	return h.signals.ListByStatus(ctx, models.SignalStatus(req.Status), req.Limit)
}

// ListPumps returns recent unexpired pump events, newest first.
func (h *Handler) ListPumps(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("pumps").Observe(time.Since(start).Seconds()) }()

	req := &models.ListPumpsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":pumps", 10, 5) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	events, err := h.tickers.RecentPumpEvents(c.Request().Context())
	if err != nil {
		metrics.APIErrors.WithLabelValues("pumps").Inc()
		h.l.Error("list pumps failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("pump cache unavailable").WithError(err))
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].DetectedAt.After(events[j].DetectedAt)
	})
	if len(events) > req.Limit {
		events = events[:req.Limit]
	}
	return xhttp.ListResponse(c, events, int64(len(events)))
}

// Tickers returns the aggregated market view, or one symbol of it.
func (h *Handler) Tickers(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("tickers").Observe(time.Since(start).Seconds()) }()

	req := &models.GetTickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":tickers", 20, 10) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	agg, err := h.tickers.GetAggregated(c.Request().Context())
	if err != nil {
		metrics.APIErrors.WithLabelValues("tickers").Inc()
		h.l.Error("get tickers failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("ticker cache unavailable").WithError(err))
	}

	if req.Symbol != "" {
		t, ok := agg[req.Symbol]
		if !ok {
			return xhttp.NotFoundResponse(c, "no ticker for symbol "+req.Symbol)
		}
		return xhttp.SuccessResponse(c, t)
	}
	return xhttp.SuccessResponse(c, agg)
}

// Health reports component status. 200 when everything is up, 503 otherwise.
func (h *Handler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	components := map[string]string{}
	healthy := true

	if err := h.tickers.Health(ctx); err != nil {
		components["cache"] = err.Error()
		healthy = false
	} else {
		components["cache"] = "ok"
	}
	if err := h.signals.Health(ctx); err != nil {
		components["signals"] = err.Error()
		healthy = false
	} else {
		components["signals"] = "ok"
	}
	if h.stream != nil {
		if h.stream.IsConnected() {
			components["stream"] = "ok"
		} else {
			components["stream"] = "disconnected"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]interface{}{
		"healthy":    healthy,
		"components": components,
		"timestamp":  time.Now(),
	})
}

func (h *Handler) cached(key string) ([]byte, bool) {
	if h.respCache == nil {
		return nil, false
	}
	b, ok, err := h.respCache.GetBytes(key)
	if err != nil {
		h.l.Warn("response cache get failed", applogger.Error(err))
		return nil, false
	}
	return b, ok
}

func (h *Handler) respond(c echo.Context, key string, data interface{}) error {
	body := xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    data,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return xhttp.InternalServerErrorResponse(c)
	}
	if h.respCache != nil {
		if err := h.respCache.SetBytes(key, b, 10*time.Second); err != nil {
			h.l.Warn("response cache set failed", applogger.Error(err))
		}
	}
	return c.JSONBlob(http.StatusOK, b)
}
