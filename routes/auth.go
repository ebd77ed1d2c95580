package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vivekkr10/bakery-sub000/auth"
)

// SetupAuthRoutes registers the "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, otpStore *auth.OTPStore, sender auth.OTPSender) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/request-otp", auth.RequestOTPHandler(otpStore, sender))
		authGroup.POST("/verify-otp", auth.VerifyOTPHandler(db, otpStore))
	}
}
