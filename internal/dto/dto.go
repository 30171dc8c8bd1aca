package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
}

type CartResponse struct {
	Items []string `json:"items"`
}

type OrderResponse struct {
	ID          uint            `json:"id"`
	UserID      uint            `json:"userId,omitempty"`
	Date        time.Time       `json:"date"`
	Status      string          `json:"status"`
	Items       []string        `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Unavailable []string        `json:"unavailable,omitempty"`
}

type OrdersResponse struct {
	Orders []*OrderResponse `json:"orders"`
}

type SimulateOrderResponse struct {
	OrderID uint `json:"orderId"`
}

type SetOrderStatusRequest struct {
	OrderID uint   `json:"orderId"`
	Status  string `json:"status"`
}

type InvoiceRequest struct {
	Items       []string        `json:"items"`
	Amount      decimal.Decimal `json:"amount"`
	Email       string          `json:"email"`
	Description string          `json:"description"`
}

type InvoiceResponse struct {
	RedirectURL   string `json:"redirectUrl"`
	OrderID       string `json:"orderId"`
	LedgerOrderID uint   `json:"ledgerOrderId"`
}

type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type SubscriptionResponse struct {
	SubscriptionLink string     `json:"subscriptionLink"`
	ProductID        string     `json:"productId"`
	ExpiresAt        *time.Time `json:"expiresAt"`
}

type AdminCheckResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
