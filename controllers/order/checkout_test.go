package orderControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekkr10/bakery-sub000/apperrors"
	"github.com/vivekkr10/bakery-sub000/models"
)

func TestPriceOrder(t *testing.T) {
	carts := [][]models.OrderItem{
		{{Price: 100, Quantity: 2}},
		{{Price: 49.5, Quantity: 1}, {Price: 250, Quantity: 3}},
		{{Price: 0.99, Quantity: 7}},
	}

	for _, items := range carts {
		subtotal, tax, total := PriceOrder(items)
		assert.InDelta(t, subtotal*TaxRate, tax, 1e-9)
		assert.InDelta(t, subtotal+tax+DeliveryCharge, total, 1e-9)
	}
}

func TestCreateOrderScenario(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "user1")
	p1 := seedProduct(t, db, "Chocolate Truffle Cake", 100, 5)
	gw := &fakeGateway{}

	req := CreateOrderRequest{
		Items: []CartItemInput{
			{ProductID: &p1.ID, Quantity: 2},
		},
		ShippingAddress: validShipping(),
		PaymentMethod:   PaymentMethodGateway,
	}

	order, gwOrder, err := CreateOrder(db, gw, "user1", req)
	require.NoError(t, err)

	assert.InDelta(t, 200.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 20.0, order.Tax, 1e-9)
	assert.InDelta(t, 40.0, order.DeliveryCharge, 1e-9)
	assert.InDelta(t, 260.0, order.TotalAmount, 1e-9)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.NotEmpty(t, order.OrderRef)
	assert.NotZero(t, order.ID)

	// Gateway order is for the total in minor units
	require.NotNil(t, gwOrder)
	assert.Equal(t, int64(26000), gw.lastAmount)
	assert.Equal(t, "order_gw_1", order.Payment.GatewayOrderID)
	assert.Equal(t, Currency, order.Payment.Currency)

	// Stock is untouched at creation time
	assert.Equal(t, 5, productStock(t, db, p1.ID))

	// Items are snapshots of the product
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Chocolate Truffle Cake", order.Items[0].Name)
	assert.InDelta(t, 100.0, order.Items[0].Price, 1e-9)
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "user1")
	p1 := seedProduct(t, db, "Chocolate Truffle Cake", 100, 1)

	req := CreateOrderRequest{
		Items:           []CartItemInput{{ProductID: &p1.ID, Quantity: 2}},
		ShippingAddress: validShipping(),
		PaymentMethod:   PaymentMethodGateway,
	}

	_, _, err := CreateOrder(db, &fakeGateway{}, "user1", req)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "only 1 available")
	assert.Zero(t, orderCount(t, db))
}

func TestCreateOrderValidation(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "user1")
	p1 := seedProduct(t, db, "Brownie", 50, 10)
	price := 120.0

	cases := []struct {
		name    string
		mutate  func(*CreateOrderRequest)
		message string
	}{
		{
			name:    "empty items",
			mutate:  func(r *CreateOrderRequest) { r.Items = nil },
			message: "at least one item",
		},
		{
			name: "missing shipping city",
			mutate: func(r *CreateOrderRequest) {
				r.ShippingAddress.City = ""
			},
			message: `"city" is required`,
		},
		{
			name: "phone too short",
			mutate: func(r *CreateOrderRequest) {
				r.ShippingAddress.Phone = "12345"
			},
			message: "exactly 10 digits",
		},
		{
			name: "phone not numeric",
			mutate: func(r *CreateOrderRequest) {
				r.ShippingAddress.Phone = "98765abc10"
			},
			message: "exactly 10 digits",
		},
		{
			name: "unknown product",
			mutate: func(r *CreateOrderRequest) {
				unknown := uint(9999)
				r.Items = []CartItemInput{{ProductID: &unknown, Quantity: 1}}
			},
			message: "does not exist",
		},
		{
			name: "zero quantity",
			mutate: func(r *CreateOrderRequest) {
				r.Items = []CartItemInput{{ProductID: &p1.ID, Quantity: 0}}
			},
			message: "at least 1",
		},
		{
			name: "custom item without price",
			mutate: func(r *CreateOrderRequest) {
				r.Items = []CartItemInput{{Name: "Custom Cake", Quantity: 1}}
			},
			message: "custom items require",
		},
		{
			name: "custom item zero quantity",
			mutate: func(r *CreateOrderRequest) {
				r.Items = []CartItemInput{{Name: "Custom Cake", Price: &price, Quantity: 0}}
			},
			message: "at least 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := CreateOrderRequest{
				Items:           []CartItemInput{{ProductID: &p1.ID, Quantity: 1}},
				ShippingAddress: validShipping(),
				PaymentMethod:   PaymentMethodGateway,
			}
			tc.mutate(&req)

			_, _, err := CreateOrder(db, &fakeGateway{}, "user1", req)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
			assert.Contains(t, err.Error(), tc.message)
		})
	}

	assert.Zero(t, orderCount(t, db))
}

func TestCreateOrderGatewayFailureAborts(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "user1")
	p1 := seedProduct(t, db, "Brownie", 50, 10)

	req := CreateOrderRequest{
		Items:           []CartItemInput{{ProductID: &p1.ID, Quantity: 1}},
		ShippingAddress: validShipping(),
		PaymentMethod:   PaymentMethodGateway,
	}

	_, _, err := CreateOrder(db, &fakeGateway{failing: true}, "user1", req)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUpstream))

	// No partial order persisted
	assert.Zero(t, orderCount(t, db))
}

func TestCreateOrderCashOnDelivery(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "user1")
	p1 := seedProduct(t, db, "Brownie", 50, 10)
	gw := &fakeGateway{}

	req := CreateOrderRequest{
		Items:           []CartItemInput{{ProductID: &p1.ID, Quantity: 2}},
		ShippingAddress: validShipping(),
		PaymentMethod:   PaymentMethodCOD,
	}

	order, gwOrder, err := CreateOrder(db, gw, "user1", req)
	require.NoError(t, err)
	assert.Nil(t, gwOrder)
	assert.Zero(t, gw.calls)
	assert.Empty(t, order.Payment.GatewayOrderID)
	assert.Equal(t, int64(1), orderCount(t, db))
}

func TestCreateOrderUnknownPaymentMethod(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "user1")
	p1 := seedProduct(t, db, "Brownie", 50, 10)
	gw := &fakeGateway{}

	req := CreateOrderRequest{
		Items:           []CartItemInput{{ProductID: &p1.ID, Quantity: 1}},
		ShippingAddress: validShipping(),
		PaymentMethod:   "razorpy",
	}

	_, _, err := CreateOrder(db, gw, "user1", req)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "unsupported payment method")

	// No gateway call, no order with an empty payment sub-record
	assert.Zero(t, gw.calls)
	assert.Zero(t, orderCount(t, db))
}

func TestCreateOrderAdHocItem(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "user1")
	price := 500.0

	req := CreateOrderRequest{
		Items: []CartItemInput{
			{Name: "3-tier Wedding Cake", Price: &price, Quantity: 1},
		},
		ShippingAddress: validShipping(),
		PaymentMethod:   PaymentMethodGateway,
	}

	order, _, err := CreateOrder(db, &fakeGateway{}, "user1", req)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Nil(t, order.Items[0].ProductID)
	assert.InDelta(t, 500.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 590.0, order.TotalAmount, 1e-9)
}
