package models

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	ProjectID string `json:"project_id,omitempty"`
	Area      string `json:"area,omitempty"`
	// Snapshot data from the storefront; enriched from the catalog when it is
	// reachable.
	UnitPrice int64  `json:"unit_price"`
	Title     string `json:"title,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type EstimateItemInput struct {
	Description string `json:"description" binding:"required"`
	Area        string `json:"area,omitempty"`
	Quantity    int    `json:"quantity" binding:"required"`
	UnitPrice   int64  `json:"unit_price" binding:"required"`
}

type GenerateEstimateRequest struct {
	Type        string              `json:"type" binding:"required"`
	DiscountPct float64             `json:"discount_pct"`
	Items       []EstimateItemInput `json:"items" binding:"required"`
}

type CheckoutRequest struct {
	LineIDs []string `json:"line_ids" binding:"required"`
}

type CreateIntentRequest struct {
	ProjectID  string `json:"project_id" binding:"required"`
	EstimateID string `json:"estimate_id" binding:"required"`
	Type       string `json:"type" binding:"required"` // advance, balance or full
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	GatewaySignature string `json:"gateway_signature" binding:"required"`
}

type AdvanceDeliveryRequest struct {
	ToStatus          string `json:"to_status" binding:"required"`
	TrackingID        string `json:"tracking_id,omitempty"`
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`
}
