package orderControllers

import (
	"math"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vivekkr10/bakery-sub000/apperrors"
	"github.com/vivekkr10/bakery-sub000/gateway"
	"github.com/vivekkr10/bakery-sub000/models"
)

const (
	TaxRate        = 0.10 // 10% of subtotal
	DeliveryCharge = 40.0 // flat, in currency units
	Currency       = "INR"

	PaymentMethodGateway = "razorpay"
	PaymentMethodCOD     = "cod"
)

var phoneRe = regexp.MustCompile(`^[0-9]{10}$`)

// GatewayClient is the slice of the payment gateway the checkout needs.
type GatewayClient interface {
	CreateOrder(amount int64, currency, receipt string) (*gateway.GatewayOrder, error)
	KeySecret() string
}

// CartItemInput is a tagged union: either a catalog reference (product_id +
// quantity) or a fully specified ad-hoc item (name + price + quantity).
type CartItemInput struct {
	ProductID *uint    `json:"product_id"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	Quantity  int      `json:"quantity"`
	Image     string   `json:"image"`
}

type CreateOrderRequest struct {
	Items           []CartItemInput        `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

type VerifyPaymentRequest struct {
	OrderID        uint   `json:"orderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
	GatewayOrderID string `json:"gatewayOrderId"`
}

func fail(c *gin.Context, err error) {
	c.JSON(apperrors.Status(err), gin.H{"success": false, "message": apperrors.Message(err)})
}

// validateShipping checks the required address fields in a fixed order so
// the first missing field is the one reported.
func validateShipping(addr models.ShippingAddress) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", addr.Name},
		{"phone", addr.Phone},
		{"addressLine1", addr.AddressLine1},
		{"city", addr.City},
		{"state", addr.State},
		{"postalCode", addr.PostalCode},
	}
	for _, f := range fields {
		if f.value == "" {
			return apperrors.Validation("shipping address field %q is required", f.name)
		}
	}
	if !phoneRe.MatchString(addr.Phone) {
		return apperrors.Validation("phone must be exactly 10 digits")
	}
	return nil
}

// resolveItems turns the request items into order-item snapshots. Catalog
// references are checked against the product table (existence and stock);
// ad-hoc items must be fully specified. Fails on the first bad item.
func resolveItems(db *gorm.DB, inputs []CartItemInput) ([]models.OrderItem, error) {
	var items []models.OrderItem
	for _, in := range inputs {
		if in.ProductID != nil {
			var product models.Product
			if err := db.First(&product, "id = ?", *in.ProductID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return nil, apperrors.Validation("product %d does not exist", *in.ProductID)
				}
				return nil, apperrors.Internal("failed to look up product", err)
			}
			if product.Stock < in.Quantity {
				return nil, apperrors.Validation(
					"insufficient stock for %s: only %d available", product.Name, product.Stock)
			}
			if in.Quantity < 1 {
				return nil, apperrors.Validation("quantity must be at least 1")
			}
			pid := product.ID
			items = append(items, models.OrderItem{
				ProductID: &pid,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  in.Quantity,
				Image:     product.Image,
			})
			continue
		}

		if in.Name == "" || in.Price == nil {
			return nil, apperrors.Validation("custom items require name, price and quantity")
		}
		if in.Quantity < 1 {
			return nil, apperrors.Validation("quantity must be at least 1")
		}
		items = append(items, models.OrderItem{
			Name:     in.Name,
			Price:    *in.Price,
			Quantity: in.Quantity,
			Image:    in.Image,
		})
	}
	return items, nil
}

// PriceOrder computes the order totals: tax is 10% of the subtotal and the
// delivery charge is flat.
func PriceOrder(items []models.OrderItem) (subtotal, tax, total float64) {
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	tax = subtotal * TaxRate
	total = subtotal + tax + DeliveryCharge
	return subtotal, tax, total
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// CreateOrder validates the cart, prices it, registers a gateway order for
// gateway-paid methods and persists the Order. A gateway failure aborts the
// whole operation; no partial Order is persisted.
func CreateOrder(db *gorm.DB, gw GatewayClient, userID string, req CreateOrderRequest) (*models.Order, *gateway.GatewayOrder, error) {
	if len(req.Items) == 0 {
		return nil, nil, apperrors.Validation("order must contain at least one item")
	}
	if err := validateShipping(req.ShippingAddress); err != nil {
		return nil, nil, err
	}
	if req.PaymentMethod != PaymentMethodGateway && req.PaymentMethod != PaymentMethodCOD {
		return nil, nil, apperrors.Validation("unsupported payment method %q", req.PaymentMethod)
	}

	items, err := resolveItems(db, req.Items)
	if err != nil {
		return nil, nil, err
	}

	subtotal, tax, total := PriceOrder(items)

	order := models.Order{
		OrderRef:       generateOrderRef(),
		UserID:         userID,
		Items:          items,
		Shipping:       req.ShippingAddress,
		Subtotal:       subtotal,
		Tax:            tax,
		DeliveryCharge: DeliveryCharge,
		TotalAmount:    total,
		PaymentMethod:  req.PaymentMethod,
		Status:         models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
		CreatedAt:      time.Now(),
	}

	var gwOrder *gateway.GatewayOrder
	if req.PaymentMethod == PaymentMethodGateway {
		amount := int64(math.Round(total * 100))
		gwOrder, err = gw.CreateOrder(amount, Currency, order.OrderRef)
		if err != nil {
			return nil, nil, apperrors.Upstream("payment gateway is unavailable, please retry", err)
		}
		order.Payment = models.Payment{
			GatewayOrderID: gwOrder.ID,
			Currency:       gwOrder.Currency,
			Amount:         gwOrder.Amount,
		}
	}

	if err := db.Create(&order).Error; err != nil {
		return nil, nil, apperrors.Internal("failed to create order", err)
	}

	broadcastNewOrder(order)
	return &order, gwOrder, nil
}

// POST /orders/create
func CreateOrderHandler(db *gorm.DB, gw GatewayClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
			return
		}

		order, gwOrder, err := CreateOrder(db, gw, userIDVal.(string), req)
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":      true,
			"order":        order,
			"gatewayOrder": gwOrder,
		})
	}
}
