package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (bakery fulfilment flow)
	OrderStatusPending        OrderStatus = "pending"          // Placed at checkout, payment not confirmed
	OrderStatusConfirmed      OrderStatus = "confirmed"        // Payment confirmed, accepted by the bakery
	OrderStatusPreparing      OrderStatus = "preparing"        // Being baked/packed
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery" // Handed to the delivery rider
	OrderStatusDelivered      OrderStatus = "delivered"        // Customer received the order
	OrderStatusCancelled      OrderStatus = "cancelled"        // Cancelled by user or admin
	OrderStatusReturned       OrderStatus = "returned"         // Customer returned the order

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ValidOrderStatus reports whether s is one of the enumerated order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled,
		OrderStatusReturned:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is one of the enumerated payment statuses.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// paymentTransitions is the payment state machine: pending may become paid
// or failed, a failed payment may be retried to paid, paid may become
// refunded. Everything else is rejected, which makes "already paid" a
// universal precondition check.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusFailed:  {PaymentStatusPaid},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

// CanTransitionPayment reports whether a payment status change is allowed.
func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ShippingAddress is embedded in Order. All fields except AddressLine2
// are required at checkout.
type ShippingAddress struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

// Payment holds the gateway-side identifiers for an order.
type Payment struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
	Currency         string `json:"currency"`
	Amount           int64  `json:"amount"` // minor units (paise)
}

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderRef       string          `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID         string          `gorm:"index;not null" json:"user_id"`
	User           User            `gorm:"foreignKey:UserID" json:"user"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Shipping       ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	Subtotal       float64         `json:"subtotal"`
	Tax            float64         `json:"tax"`
	DeliveryCharge float64         `json:"delivery_charge"`
	TotalAmount    float64         `json:"total_amount"`
	Payment        Payment         `gorm:"embedded;embeddedPrefix:pay_" json:"payment"`
	PaymentMethod  string          `json:"payment_method"` // "razorpay" or "cod"
	Status         OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus  PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	CreatedAt      time.Time       `json:"created_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
}

// OrderItem is a snapshot of the product at order time. ProductID is nil
// for ad-hoc items (custom cakes etc.) that are not in the catalog; later
// catalog price changes never alter a placed order.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID *uint   `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}
