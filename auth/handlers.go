package auth

import (
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vivekkr10/bakery-sub000/models"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type RequestOTPInput struct {
	Email string `json:"email" binding:"required"`
}

type VerifyOTPInput struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
	Name  string `json:"name"`
}

// RequestOTPHandler generates a login code for the email and hands it to the
// delivery collaborator.
func RequestOTPHandler(store *OTPStore, sender OTPSender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RequestOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email is required"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))
		if !emailRe.MatchString(email) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid email address"})
			return
		}

		code, err := GenerateCode()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to generate OTP"})
			return
		}
		if err := store.Save(c.Request.Context(), email, code); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to store OTP"})
			return
		}
		if err := sender.Send(c.Request.Context(), email, code); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "failed to deliver OTP"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent"})
	}
}

// VerifyOTPHandler checks the code, creates the user on first login and
// returns a bearer token.
func VerifyOTPHandler(db *gorm.DB, store *OTPStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and otp are required"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))

		ok, err := store.Consume(c.Request.Context(), email, input.OTP)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to verify OTP"})
			return
		}
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired OTP"})
			return
		}

		var user models.User
		err = db.Where("email = ?", email).First(&user).Error
		if err == gorm.ErrRecordNotFound {
			user = models.User{
				ID:    uuid.NewString(),
				Email: email,
				Name:  input.Name,
				Role:  roleFor(email),
				Cart:  models.Cart{},
			}
			user.Cart.UserID = user.ID
			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create user"})
				return
			}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
			return
		}

		token, err := IssueToken(user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
	}
}

// roleFor grants admin to emails listed in ADMIN_EMAILS (comma separated).
func roleFor(email string) string {
	for _, admin := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		if admin != "" && strings.EqualFold(strings.TrimSpace(admin), email) {
			return models.RoleAdmin
		}
	}
	return models.RoleUser
}
