package shopifyhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BearBump/TrackPage/internal/models"
	"github.com/stretchr/testify/require"
)

func testShop() models.Shop {
	return models.Shop{Domain: "demo.myshopify.com", AccessToken: "shpat_test"}
}

func TestClient_ListOrdersByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/api/2024-01/orders.json", r.URL.Path)
		require.Equal(t, "1002", r.URL.Query().Get("name"))
		require.Equal(t, "any", r.URL.Query().Get("status"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		require.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "orders": [{
    "id": 450789469,
    "name": "#1002",
    "email": "jane@example.com",
    "phone": "+15551234567",
    "created_at": "2025-01-01T12:00:00Z",
    "financial_status": "paid",
    "fulfillment_status": "fulfilled",
    "total_price": "199.00",
    "currency": "USD",
    "line_items": [{"title": "Mug", "quantity": 2, "price": "99.50"}]
  }]
}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	orders, err := c.ListOrdersByName(context.Background(), testShop(), "1002")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, uint64(450789469), orders[0].ID)
	require.Equal(t, "#1002", orders[0].Name)
	require.Equal(t, "jane@example.com", orders[0].Email)
	require.Equal(t, "199.00", orders[0].TotalPrice)
	require.Len(t, orders[0].LineItems, 1)
	require.Equal(t, 2, orders[0].LineItems[0].Quantity)
}

func TestClient_ListFulfillments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/api/2024-01/orders/450789469/fulfillments.json", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "fulfillments": [{
    "id": 255858046,
    "status": "success",
    "created_at": "2025-01-02T09:00:00Z",
    "updated_at": "2025-01-02T09:00:00Z",
    "tracking_company": "UPS",
    "tracking_number": "1Z999AA1",
    "tracking_url": "https://www.ups.com/track?tracknum=1Z999AA1",
    "shipment_status": "in_transit",
    "line_items": [{"title": "Mug", "quantity": 2, "price": "99.50"}]
  }]
}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	fs, err := c.ListFulfillments(context.Background(), testShop(), 450789469)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	require.Equal(t, "UPS", fs[0].TrackingCompany)
	require.Equal(t, "1Z999AA1", fs[0].TrackingNumber)
	require.Equal(t, "in_transit", fs[0].ShipmentStatus)
}

func TestClient_HTTPErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.ListOrdersByName(context.Background(), testShop(), "1002")
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

func TestNormalizeDomain(t *testing.T) {
	require.Equal(t, "demo.myshopify.com", normalizeDomain("https://demo.myshopify.com/"))
	require.Equal(t, "demo.myshopify.com", normalizeDomain("demo.myshopify.com"))
}
