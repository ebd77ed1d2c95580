package orderControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vivekkr10/bakery-sub000/apperrors"
	"github.com/vivekkr10/bakery-sub000/gateway"
	"github.com/vivekkr10/bakery-sub000/models"
)

// VerifyPayment confirms a gateway payment for an order. The signature is
// checked first; then the order is marked paid with a conditional update so
// that concurrent callbacks for the same order serialize on the row and only
// the first one wins. Marking paid and decrementing stock happen in one
// transaction.
//
// Stock is decremented without a floor check: availability was validated at
// checkout, and the window between checkout and payment is accepted as a
// known limitation rather than failing a captured payment.
func VerifyPayment(db *gorm.DB, secret string, req VerifyPaymentRequest) (*models.Order, error) {
	if !gateway.VerifySignature(secret, req.GatewayOrderID, req.PaymentID, req.Signature) {
		return nil, apperrors.Validation("invalid payment signature")
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", req.OrderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to load order", err)
	}

	// The signed pair must belong to this order; a genuine signature from a
	// different (cheaper) order must not mark this one paid.
	if order.Payment.GatewayOrderID != req.GatewayOrderID {
		return nil, apperrors.Validation("invalid payment signature")
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, apperrors.Conflict("payment already processed for this order")
	}
	if !models.CanTransitionPayment(order.PaymentStatus, models.PaymentStatusPaid) {
		return nil, apperrors.Conflict("order payment is %s and cannot be marked paid", order.PaymentStatus)
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		// Conditional update: only rows still awaiting payment flip to paid.
		// A concurrent verification that lost the race affects zero rows.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status IN ?", order.ID,
				[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusFailed}).
			Updates(map[string]interface{}{
				"payment_status":         models.PaymentStatusPaid,
				"status":                 models.OrderStatusConfirmed,
				"pay_gateway_payment_id": req.PaymentID,
				"pay_signature":          req.Signature,
				"paid_at":                now,
			})
		if res.Error != nil {
			return apperrors.Internal("failed to update order", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("payment already processed for this order")
		}

		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			if err := tx.Model(&models.Product{}).
				Where("id = ?", *item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return apperrors.Internal("failed to update stock", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Items").First(&order, "id = ?", order.ID).Error; err != nil {
		return nil, apperrors.Internal("failed to reload order", err)
	}
	return &order, nil
}

// POST /orders/verify-payment
func VerifyPaymentHandler(db *gorm.DB, gw GatewayClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
			return
		}

		order, err := VerifyPayment(db, gw.KeySecret(), req)
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}
