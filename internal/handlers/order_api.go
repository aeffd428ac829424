package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/services"
)

// OrderAPIHandler serves GET /api/orders/{reference} for the signed-in user
type OrderAPIHandler struct {
	orders services.OrderService
}

// NewOrderAPIHandler creates a new order API handler
func NewOrderAPIHandler(orders services.OrderService) *OrderAPIHandler {
	return &OrderAPIHandler{orders: orders}
}

// OrderResponse is the JSON shape of an order
type OrderResponse struct {
	Reference string              `json:"reference"`
	Status    string              `json:"status"`
	Customer  CustomerResponse    `json:"customer"`
	Items     []OrderItemResponse `json:"items"`
	Total     int64               `json:"total"`
	Formatted string              `json:"formattedTotal"`
	Currency  string              `json:"currency"`
	CreatedAt time.Time           `json:"createdAt"`
}

type CustomerResponse struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	PostalCode string `json:"postalCode"`
}

type OrderItemResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *OrderAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := sessionFrom(r.Context())

	reference := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	if reference == "" || strings.Contains(reference, "/") {
		sendErrorResponse(w, "Order reference is required", http.StatusBadRequest)
		return
	}

	order, err := h.orders.GetOrderByReference(reference)
	if err != nil || order.Username != session.Username {
		sendErrorResponse(w, "Order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newOrderResponse(order)); err != nil {
		logrus.WithError(err).Error("Error encoding response")
	}
}

func newOrderResponse(order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, OrderItemResponse{ProductID: it.ProductID, Name: it.Name, Price: it.PriceCents})
	}
	return OrderResponse{
		Reference: order.Reference,
		Status:    string(order.Status),
		Customer: CustomerResponse{
			FirstName:  order.Customer.FirstName,
			LastName:   order.Customer.LastName,
			PostalCode: order.Customer.PostalCode,
		},
		Items:     items,
		Total:     order.Total,
		Formatted: order.GetFormattedTotal(),
		Currency:  order.Currency,
		CreatedAt: order.CreatedAt,
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
