package http

import (
	"net/http"
	"strconv"

	"wealth-signals/internal/signals/dto"
	"wealth-signals/internal/signals/service"
	"wealth-signals/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalHandler handles HTTP requests for trading signals.
type SignalHandler struct {
	signalService service.SignalService
	defaultLimit  int
	logger        *logger.Logger
}

// NewSignalHandler creates a new SignalHandler.
func NewSignalHandler(signalService service.SignalService, defaultLimit int, logger *logger.Logger) *SignalHandler {
	return &SignalHandler{signalService: signalService, defaultLimit: defaultLimit, logger: logger}
}

// RegisterRoutes registers the signal routes to the Echo instance.
func (h *SignalHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/signals", h.GetSignals)
}

// Health godoc
// @Summary Service health
// @Description Reports liveness and whether the language model is configured
// @Tags health
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *SignalHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		h.signalService.Provider() + "_available": h.signalService.ModelAvailable(),
	})
}

// GetSignals godoc
// @Summary Get trading signals
// @Description Get BUY/SELL/WATCH signals for the first N tickers of the universe
// @Tags signals
// @Produce  json
// @Param   limit  query    int false    "Number of tickers" default(8)
// @Success 200 {array} entity.Signal
// @Failure 400 {object} dto.ErrorResponse
// @Router /signals [get]
func (h *SignalHandler) GetSignals(c echo.Context) error {
	limit := h.defaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "limit must be a non-negative integer"})
		}
		limit = n
	}

	signals := h.signalService.GetSignals(c.Request().Context(), limit)
	h.logger.InfoContext(c.Request().Context(), "Signals served", logger.IntField("limit", limit), logger.IntField("count", len(signals)))

	return c.JSON(http.StatusOK, signals)
}
