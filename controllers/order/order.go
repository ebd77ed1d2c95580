package orderControllers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vivekkr10/bakery-sub000/apperrors"
	"github.com/vivekkr10/bakery-sub000/models"
)

// restoreStockOnCancel controls whether cancelling a paid order puts its
// catalog items back in stock. Off by default: cancellation does not restock.
func restoreStockOnCancel() bool {
	return os.Getenv("RESTORE_STOCK_ON_CANCEL") == "true"
}

// CancelOrder cancels an order on behalf of its owner. Orders already out
// the door (or already cancelled) cannot be cancelled.
func CancelOrder(db *gorm.DB, orderID, userID string) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to load order", err)
	}
	if order.UserID != userID {
		return nil, apperrors.Forbidden("you do not own this order")
	}

	switch order.Status {
	case models.OrderStatusDelivered:
		return nil, apperrors.Conflict("cannot cancel an order that was already delivered")
	case models.OrderStatusOutForDelivery:
		return nil, apperrors.Conflict("cannot cancel an order that is out for delivery")
	case models.OrderStatusCancelled:
		return nil, apperrors.Conflict("order is already cancelled")
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       models.OrderStatusCancelled,
			"cancelled_at": now,
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return apperrors.Internal("failed to cancel order", err)
		}

		if restoreStockOnCancel() && order.PaymentStatus == models.PaymentStatusPaid {
			for _, item := range order.Items {
				if item.ProductID == nil {
					continue
				}
				if err := tx.Model(&models.Product{}).
					Where("id = ?", *item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
					return apperrors.Internal("failed to restore stock", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCancelled
	order.CancelledAt = &now
	return &order, nil
}

// GET /orders/my
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userIDVal).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// GET /orders/:id (owner-only)
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, _ := c.Get("user_id")
		id := c.Param("id")

		var order models.Order
		if err := db.
			Preload("Items").
			Where("id = ? OR order_ref = ?", id, id).
			First(&order).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch order"})
			return
		}

		if order.UserID != userIDVal {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "you do not own this order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

// PUT /orders/cancel/:id
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		order, err := CancelOrder(db, c.Param("id"), userIDVal.(string))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}
