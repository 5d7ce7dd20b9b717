package transport

import (
	"net/http"
	"strings"
	"testing"

	"sweet-layers/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutForm() domain.CheckoutForm {
	return domain.CheckoutForm{
		FirstName:           "Ada",
		LastName:            "Baker",
		Email:               "ada@example.com",
		Phone:               "(555) 123-4567",
		Address:             "12 Flour Street",
		City:                "Portland",
		State:               "OR",
		ZipCode:             "97201",
		DeliveryDate:        "2026-11-02",
		SpecialInstructions: "Ring twice",
		CardNumber:          "4111 1111 1111 1111",
		ExpiryDate:          "12/28",
		CVV:                 "123",
		CardName:            "Ada Baker",
	}
}

func TestCheckoutHandler_PlacesOrderAndClearsCart(t *testing.T) {
	srv := newTestServer(t)
	srv.do(http.MethodPost, "/api/cart/items", testSession, AddItemRequest{ProductID: 3, Quantity: 1, Size: "dozen"})

	w := srv.do(http.MethodPost, "/api/checkout", testSession, checkoutForm())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CheckoutResponse
	decodeBody(t, w, &resp)
	require.NotNil(t, resp.Order)
	assert.Equal(t, domain.OrderStatusConfirmed, resp.Order.Status)
	require.Len(t, resp.Order.Items, 1)
	assert.Equal(t, "Rainbow Cupcakes", resp.Order.Items[0].ProductName)

	// 24.99 + 10 shipping + 2.00 tax
	assert.Equal(t, "36.99", resp.Order.Total.StringFixed(2))
	assert.True(t, resp.Summary.Total.Equal(resp.Order.Total))
	assert.Equal(t, "Ring twice", resp.Order.DeliveryInfo.SpecialInstructions)

	var cartResp CartResponse
	decodeBody(t, srv.do(http.MethodGet, "/api/cart", testSession, nil), &cartResp)
	assert.Zero(t, cartResp.TotalItems)
	assert.Len(t, srv.orders.orders, 1)
}

func TestCheckoutHandler_InvalidEmail(t *testing.T) {
	srv := newTestServer(t)
	srv.do(http.MethodPost, "/api/cart/items", testSession, AddItemRequest{ProductID: 3, Quantity: 1, Size: "dozen"})

	form := checkoutForm()
	form.Email = "not-an-email"

	w := srv.do(http.MethodPost, "/api/checkout", testSession, form)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorBody
	decodeBody(t, w, &resp)
	assert.Equal(t, []string{"email"}, resp.fields())
	assert.Equal(t, "Please enter a valid email address", resp.Error.Details.ValidationErrors[0].Message)

	var cartResp CartResponse
	decodeBody(t, srv.do(http.MethodGet, "/api/cart", testSession, nil), &cartResp)
	assert.Equal(t, 1, cartResp.TotalItems)
	assert.Empty(t, srv.orders.orders)
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/checkout", testSession, checkoutForm())
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorBody
	decodeBody(t, w, &resp)
	assert.Equal(t, []string{"items"}, resp.fields())
}

func TestCheckoutHandler_StoreFailureIsRetryable(t *testing.T) {
	srv := newTestServer(t)
	srv.orders.fail = true
	srv.do(http.MethodPost, "/api/cart/items", testSession, AddItemRequest{ProductID: 1, Quantity: 2, Size: "6 inch"})

	w := srv.do(http.MethodPost, "/api/checkout", testSession, checkoutForm())
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp errorBody
	decodeBody(t, w, &resp)
	assert.True(t, resp.Error.Details.Retryable)

	var cartResp CartResponse
	decodeBody(t, srv.do(http.MethodGet, "/api/cart", testSession, nil), &cartResp)
	assert.Equal(t, 2, cartResp.TotalItems)
}

func TestCheckoutHandler_MalformedBody(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/checkout", testSession, "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_OversizedFieldsAreValidationErrors(t *testing.T) {
	srv := newTestServer(t)
	srv.do(http.MethodPost, "/api/cart/items", testSession, AddItemRequest{ProductID: 3, Quantity: 1, Size: "dozen"})

	form := checkoutForm()
	form.FirstName = strings.Repeat("A", 101)
	form.ZipCode = strings.Repeat("9", 21)

	w := srv.do(http.MethodPost, "/api/checkout", testSession, form)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp errorBody
	decodeBody(t, w, &resp)
	assert.ElementsMatch(t, []string{"first_name", "zip_code"}, resp.fields())
	assert.False(t, resp.Error.Details.Retryable)
	assert.Empty(t, srv.orders.orders)

	var cartResp CartResponse
	decodeBody(t, srv.do(http.MethodGet, "/api/cart", testSession, nil), &cartResp)
	assert.Equal(t, 1, cartResp.TotalItems)
}
