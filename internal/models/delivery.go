package models

type DeliveryStatus string

const (
	DeliveryOrderPlaced DeliveryStatus = "order_placed"
	DeliveryProcessing  DeliveryStatus = "processing"
	DeliveryShipped     DeliveryStatus = "shipped"
	DeliveryDelivered   DeliveryStatus = "delivered"
)

// Next returns the immediate successor stage, or false from the terminal one.
func (s DeliveryStatus) Next() (DeliveryStatus, bool) {
	switch s {
	case DeliveryOrderPlaced:
		return DeliveryProcessing, true
	case DeliveryProcessing:
		return DeliveryShipped, true
	case DeliveryShipped:
		return DeliveryDelivered, true
	}
	return "", false
}

// CanTransitionTo permits only the immediate successor: no skipping, no
// regression.
func (s DeliveryStatus) CanTransitionTo(to DeliveryStatus) bool {
	next, ok := s.Next()
	return ok && next == to
}

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryOrderPlaced, DeliveryProcessing, DeliveryShipped, DeliveryDelivered:
		return true
	}
	return false
}

// String representation (for logging)
func (s DeliveryStatus) String() string {
	return string(s)
}
