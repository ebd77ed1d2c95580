package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vivekkr10/bakery-sub000/auth"
	orderControllers "github.com/vivekkr10/bakery-sub000/controllers/order"
)

// SetupRoutes is the single entry-point that wires up Auth, User, Order and
// Admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, gw orderControllers.GatewayClient, otpStore *auth.OTPStore, sender auth.OTPSender) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db, otpStore, sender)

	// Public catalog + JWT-protected user routes
	SetupUserRoutes(r, db)

	// Order routes (JWT-protected, admin subgroup role-gated)
	SetupOrderRoutes(r, db, gw)

	// Admin back-office routes
	SetupAdminRoutes(r, db)
}
