package orderControllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vivekkr10/bakery-sub000/gateway"
	"github.com/vivekkr10/bakery-sub000/models"
)

const testSecret = "testsecret"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A fresh connection would see a fresh in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{
		ID:    id,
		Email: id + "@example.com",
		Role:  models.RoleUser,
	}).Error)
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, db.Create(&product).Error)
	return product
}

type fakeGateway struct {
	failing    bool
	calls      int
	lastAmount int64
}

func (f *fakeGateway) CreateOrder(amount int64, currency, receipt string) (*gateway.GatewayOrder, error) {
	f.calls++
	f.lastAmount = amount
	if f.failing {
		return nil, errors.New("gateway down")
	}
	return &gateway.GatewayOrder{
		ID:       "order_gw_1",
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (f *fakeGateway) KeySecret() string { return testSecret }

func sign(secret, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func validShipping() models.ShippingAddress {
	return models.ShippingAddress{
		Name:         "Asha Kumar",
		Phone:        "9876543210",
		AddressLine1: "14 Rose Street",
		City:         "Pune",
		State:        "Maharashtra",
		PostalCode:   "411001",
	}
}

func orderCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return product.Stock
}
