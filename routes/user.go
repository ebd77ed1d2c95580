package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/vivekkr10/bakery-sub000/controllers/cart"
	productControllers "github.com/vivekkr10/bakery-sub000/controllers/product"
	userControllers "github.com/vivekkr10/bakery-sub000/controllers/user"
	"github.com/vivekkr10/bakery-sub000/middleware"
)

// SetupUserRoutes registers the public catalog endpoints and the
// JWT-protected "/user/*" endpoints.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	// Public catalog browsing
	r.GET("/products", productControllers.GetProducts(db))
	r.GET("/products/:id", productControllers.GetProductByID(db))
	r.GET("/categories", productControllers.GetAllCategories(db))

	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// Profile
		userGroup.GET("/", userControllers.GetUser(db))
		userGroup.PUT("/", userControllers.UpdateUser(db))

		// Shopping cart
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(db))
			cartGroup.POST("/", cartControllers.UpdateCartItem(db))
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("/", cartControllers.ClearUserCart(db))
		}
	}
}
