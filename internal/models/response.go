package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type CartLineResponse struct {
	ID        string    `json:"line_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	ProjectID string    `json:"project_id,omitempty"`
	Area      string    `json:"area,omitempty"`
	UnitPrice int64     `json:"unit_price"`
	Title     string    `json:"title,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartResponse struct {
	Lines    []CartLineResponse `json:"lines"`
	Subtotal int64              `json:"subtotal"`
}

type EstimateResponse struct {
	ID          string             `json:"estimate_id"`
	ProjectID   string             `json:"project_id"`
	Type        string             `json:"type"`
	LineItems   []EstimateLineItem `json:"line_items"`
	Subtotal    int64              `json:"subtotal"`
	DiscountPct float64            `json:"discount_pct"`
	DiscountAmt int64              `json:"discount_amt"`
	GSTPct      float64            `json:"gst_pct"`
	GSTAmt      int64              `json:"gst_amt"`
	TotalAmount int64              `json:"total_amount"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

type PaymentIntentResponse struct {
	PaymentID      string `json:"payment_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	GatewayKeyID   string `json:"gateway_key_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

type VerifyPaymentResponse struct {
	PaymentID string     `json:"payment_id"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

type CheckoutResponse struct {
	OrderID        string `json:"order_id"`
	PaymentID      string `json:"payment_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	GatewayKeyID   string `json:"gateway_key_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	ProjectID string `json:"project_id,omitempty"`
	Area      string `json:"area,omitempty"`
}

type OrderResponse struct {
	ID             string                 `json:"order_id"`
	Items          []OrderItemResponse    `json:"items"`
	Amount         int64                  `json:"amount"`
	Status         string                 `json:"status"`
	DeliveryStatus string                 `json:"delivery_status"`
	DeliveryMeta   map[string]interface{} `json:"delivery_meta,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	PaidAt         *time.Time             `json:"paid_at,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
