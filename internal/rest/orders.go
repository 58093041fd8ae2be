package rest

import (
	"context"
	"net/http"
	"time"

	"groceryMarket/business/orders"
	"groceryMarket/domain"
	"groceryMarket/internal/middleware"
	"groceryMarket/pkg/logger"
	jsonres "groceryMarket/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type OrdersService interface {
	CreateOrder(ctx context.Context, customerID string, in orders.CreateOrderInput) (domain.Order, error)
	GetAllOrders(ctx context.Context, actor orders.Actor, filter domain.OrderFilter) ([]domain.Order, error)
	GetOrderByID(ctx context.Context, actor orders.Actor, id string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, actor orders.Actor, id, status string) (domain.Order, error)
}

type OrdersHandler struct {
	ordersService OrdersService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewOrdersHandler(ordersService OrdersService) *OrdersHandler {
	return &OrdersHandler{
		ordersService: ordersService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	VendorID        string             `json:"vendor_id" validate:"required"`
	DeliveryAddress string             `json:"delivery_address" validate:"required"`
	Notes           string             `json:"notes,omitempty"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func actorFrom(c echo.Context) orders.Actor {
	return orders.Actor{UserID: middleware.UserID(c), Role: middleware.Role(c)}
}

func (h *OrdersHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid order data", err.Error())
	}

	in := orders.CreateOrderInput{
		VendorID:        req.VendorID,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, orders.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.CreateOrder(ctx, middleware.UserID(c), in)
	if err != nil {
		logger.Error("Failed to create order", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, jsonres.Success(order))
}

func (h *OrdersHandler) GetAllOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	list, err := h.ordersService.GetAllOrders(ctx, actorFrom(c), domain.OrderFilter{
		CustomerID: c.QueryParam("customer_id"),
		VendorID:   c.QueryParam("vendor_id"),
		Status:     c.QueryParam("status"),
	})
	if err != nil {
		logger.Error("Failed to find all orders", err)
		return writeError(c, err)
	}

	return ok(c, list)
}

func (h *OrdersHandler) GetOrderByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.GetOrderByID(ctx, actorFrom(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, order)
}

func (h *OrdersHandler) UpdateOrderStatus(c echo.Context) error {
	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "status is required", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.UpdateOrderStatus(ctx, actorFrom(c), c.Param("id"), req.Status)
	if err != nil {
		logger.Error("Failed to update order status", err, "order_id", c.Param("id"))
		return writeError(c, err)
	}

	return ok(c, order)
}
