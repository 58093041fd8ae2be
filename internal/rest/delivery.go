package rest

import (
	"context"
	"net/http"
	"time"

	"groceryMarket/business/delivery"
	"groceryMarket/domain"
	"groceryMarket/internal/middleware"
	"groceryMarket/pkg/logger"
	"groceryMarket/pkg/metrics"
	jsonres "groceryMarket/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type DeliveryService interface {
	AcceptDelivery(ctx context.Context, riderID, orderID string, etaMinutes int) (domain.Delivery, error)
	GetDelivery(ctx context.Context, viewer delivery.Viewer, id string) (domain.Delivery, error)
	ListForRider(ctx context.Context, riderID string) ([]domain.Delivery, error)
	UpdateStatus(ctx context.Context, riderID, id, status string) (domain.Delivery, error)
	Progress(ctx context.Context, viewer delivery.Viewer, id string) (delivery.Snapshot, error)
	Track(ctx context.Context, viewer delivery.Viewer, id string, interval time.Duration) (<-chan delivery.Snapshot, error)
}

type DeliveryHandler struct {
	deliveryService DeliveryService
	upgrader        websocket.Upgrader
	interval        time.Duration
	validator       *validator.Validate
	timeout         time.Duration
}

func NewDeliveryHandler(deliveryService DeliveryService, interval time.Duration, allowOrigins []string) *DeliveryHandler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &DeliveryHandler{
		deliveryService: deliveryService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowOrigins),
		},
		interval:  interval,
		validator: validator.New(),
		timeout:   10 * time.Second,
	}
}

func viewerFrom(c echo.Context) delivery.Viewer {
	return delivery.Viewer{UserID: middleware.UserID(c), Role: middleware.Role(c)}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

type AcceptDeliveryRequest struct {
	OrderID    string `json:"order_id" validate:"required"`
	ETAMinutes int    `json:"eta_minutes" validate:"gte=0"`
}

type DeliveryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *DeliveryHandler) AcceptDelivery(c echo.Context) error {
	var req AcceptDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid delivery data", err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	d, err := h.deliveryService.AcceptDelivery(ctx, middleware.UserID(c), req.OrderID, req.ETAMinutes)
	if err != nil {
		logger.Error("Failed to accept delivery", err, "order_id", req.OrderID)
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, jsonres.Success(d))
}

func (h *DeliveryHandler) ListDeliveries(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	list, err := h.deliveryService.ListForRider(ctx, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, list)
}

func (h *DeliveryHandler) GetDelivery(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	d, err := h.deliveryService.GetDelivery(ctx, viewerFrom(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, d)
}

func (h *DeliveryHandler) UpdateStatus(c echo.Context) error {
	var req DeliveryStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "status is required", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	d, err := h.deliveryService.UpdateStatus(ctx, middleware.UserID(c), c.Param("id"), req.Status)
	if err != nil {
		logger.Error("Failed to update delivery status", err, "delivery_id", c.Param("id"))
		return writeError(c, err)
	}

	return ok(c, d)
}

func (h *DeliveryHandler) Progress(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snap, err := h.deliveryService.Progress(ctx, viewerFrom(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, snap)
}

// Track upgrades to a websocket and pushes one snapshot per tick until the
// delivery arrives or the client goes away.
func (h *DeliveryHandler) Track(c echo.Context) error {
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	snapshots, err := h.deliveryService.Track(ctx, viewerFrom(c), c.Param("id"), h.interval)
	if err != nil {
		return writeError(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("Failed to upgrade tracking stream", err)
		return nil
	}
	defer conn.Close()

	metrics.TrackingStreams.Inc()
	defer metrics.TrackingStreams.Dec()

	// Reads only detect the peer closing.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for snap := range snapshots {
		if err := conn.WriteJSON(snap); err != nil {
			logger.Warn("Tracking stream write failed", "delivery_id", c.Param("id"), "error", err.Error())
			return nil
		}
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "arrived"))
	return nil
}
