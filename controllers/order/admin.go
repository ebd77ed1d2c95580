package orderControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/vivekkr10/bakery-sub000/apperrors"
	"github.com/vivekkr10/bakery-sub000/models"
)

type UpdateOrderStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	PaymentStatus string `json:"payment_status"`
}

// UpdateOrderStatus applies an admin status change. Delivered and cancelled
// stamp their timestamps the first time only. No other side effects: in
// particular an admin cancellation does not restock.
func UpdateOrderStatus(db *gorm.DB, orderID string, target models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(target) {
		return nil, apperrors.Validation("invalid order status %q", target)
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to load order", err)
	}

	now := time.Now()
	updates := map[string]interface{}{"status": target}
	if target == models.OrderStatusDelivered && order.DeliveredAt == nil {
		updates["delivered_at"] = now
		order.DeliveredAt = &now
	}
	if target == models.OrderStatusCancelled && order.CancelledAt == nil {
		updates["cancelled_at"] = now
		order.CancelledAt = &now
	}

	if err := db.Model(&order).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to update order status", err)
	}
	order.Status = target
	return &order, nil
}

// UpdateOrderPaymentStatus moves an order along the payment state machine
// without a gateway callback, e.g. marking a COD order paid on delivery.
// paid stamps paid_at the first time only.
func UpdateOrderPaymentStatus(db *gorm.DB, orderID string, target models.PaymentStatus) (*models.Order, error) {
	if !models.ValidPaymentStatus(target) {
		return nil, apperrors.Validation("invalid payment status %q", target)
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to load order", err)
	}

	if !models.CanTransitionPayment(order.PaymentStatus, target) {
		return nil, apperrors.Conflict("order payment is %s and cannot become %s", order.PaymentStatus, target)
	}

	updates := map[string]interface{}{"payment_status": target}
	if target == models.PaymentStatusPaid && order.PaidAt == nil {
		now := time.Now()
		updates["paid_at"] = now
		order.PaidAt = &now
	}

	if err := db.Model(&order).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to update payment status", err)
	}
	order.PaymentStatus = target
	return &order, nil
}

// GET /orders/admin/all
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// GET /orders/admin/stats
func GetOrderStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalOrders int64
		if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to compute stats"})
			return
		}

		var revenue float64
		if err := db.Model(&models.Order{}).
			Where("payment_status = ?", models.PaymentStatusPaid).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&revenue).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to compute stats"})
			return
		}

		type statusCount struct {
			Status models.OrderStatus `json:"status"`
			Count  int64              `json:"count"`
		}
		var byStatus []statusCount
		if err := db.Model(&models.Order{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&byStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to compute stats"})
			return
		}

		var todayOrders int64
		now := time.Now()
		// Midnight in the server's location, not the UTC day boundary.
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if err := db.Model(&models.Order{}).
			Where("created_at >= ?", startOfDay).
			Count(&todayOrders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to compute stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"total_orders": totalOrders,
			"revenue":      revenue,
			"by_status":    byStatus,
			"today_orders": todayOrders,
		})
	}
}

// PUT /orders/admin/status/:id
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
			return
		}

		order, err := UpdateOrderStatus(db, c.Param("id"), models.OrderStatus(req.Status))
		if err != nil {
			fail(c, err)
			return
		}
		if req.PaymentStatus != "" {
			order, err = UpdateOrderPaymentStatus(db, c.Param("id"), models.PaymentStatus(req.PaymentStatus))
			if err != nil {
				fail(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

// DELETE /orders/admin/:id
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", orderID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id = ?", orderID).
				Delete(&models.Order{}).Error; err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted successfully"})
	}
}

// GET /orders/admin/export
func ExportOrdersToExcelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "OrderRef", "UserID", "Items", "Subtotal", "Tax",
			"DeliveryCharge", "TotalAmount", "PaymentMethod", "PaymentStatus",
			"Status", "City", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.ID)
			row.AddCell().SetValue(o.OrderRef)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(strconv.Itoa(len(o.Items)))
			row.AddCell().SetValue(o.Subtotal)
			row.AddCell().SetValue(o.Tax)
			row.AddCell().SetValue(o.DeliveryCharge)
			row.AddCell().SetValue(o.TotalAmount)
			row.AddCell().SetValue(o.PaymentMethod)
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(o.Shipping.City)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to write Excel file"})
			return
		}
	}
}
