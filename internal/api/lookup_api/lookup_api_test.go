package lookup_api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BearBump/TrackPage/internal/integrations/carrier"
	"github.com/BearBump/TrackPage/internal/models"
	"github.com/BearBump/TrackPage/internal/services/lookup"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeCommerce struct {
	orders   []*models.Order
	fulfills []*models.Fulfillment
	err      error
}

func (f *fakeCommerce) ListOrdersByName(ctx context.Context, shop models.Shop, name string) ([]*models.Order, error) {
	return f.orders, f.err
}

func (f *fakeCommerce) ListFulfillments(ctx context.Context, shop models.Shop, orderID uint64) ([]*models.Fulfillment, error) {
	return f.fulfills, f.err
}

type fakeShopStore struct {
	shop *models.Shop
	err  error
}

func (s *fakeShopStore) GetShop(ctx context.Context, domain string) (*models.Shop, error) {
	return s.shop, s.err
}

type fakeLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (l *fakeLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	l.calls++
	return l.allowed, 0, l.err
}

func newTestServer(t *testing.T, fc *fakeCommerce, shop *models.Shop, limiter RateLimiter) *httptest.Server {
	t.Helper()
	svc := lookup.New(
		&fakeShopStore{shop: shop},
		nil, 0,
		lookup.NewResolver(fc),
		lookup.NewAggregator(fc, carrier.New(nil, nil, nil, nil)),
		nil,
	)
	r := chi.NewRouter()
	New(svc, limiter, 60).Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string) (int, trackResponse) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body trackResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestTrack_Found(t *testing.T) {
	fc := &fakeCommerce{
		orders: []*models.Order{{
			ID: 7, Name: "#1002", Email: "jane@example.com",
			CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			TotalPrice: "49.99", Currency: "USD",
			LineItems: []models.LineItem{{Title: "Mug", Quantity: 2, Price: "24.99"}},
		}},
		fulfills: []*models.Fulfillment{{
			ID: 1, Status: "success",
			TrackingCompany: "UPS", TrackingNumber: "1Z999AA1",
		}},
	}
	srv := newTestServer(t, fc, &models.Shop{Domain: "demo.myshopify.com", TrackingEnabled: true}, nil)

	code, body := getJSON(t, srv.URL+"/api/v1/track?shop=demo.myshopify.com&order_number=%231002&contact=jane@example.com")
	require.Equal(t, http.StatusOK, code)
	require.True(t, body.Success)
	require.NotNil(t, body.Order)
	require.Equal(t, "#1002", body.Order.OrderNumber)
	require.Len(t, body.Order.Fulfillments, 1)
	require.Equal(t, "1Z999AA1", body.Order.Fulfillments[0].TrackingNumber)

	// Без API-ключей перевозчика трекинг честно помечен как не-живой,
	// но ссылка на сайт перевозчика есть.
	require.NotNil(t, body.Order.EnhancedTracking)
	require.False(t, body.Order.EnhancedTracking.IsLiveData)
	require.Contains(t, body.Order.EnhancedTracking.TrackingURL, "ups.com")
	require.Equal(t, "In Transit", body.Order.EnhancedTracking.Status)
}

func TestTrack_NotFoundDoesNotLeak(t *testing.T) {
	srv := newTestServer(t, &fakeCommerce{}, &models.Shop{Domain: "demo.myshopify.com", TrackingEnabled: true}, nil)

	code, body := getJSON(t, srv.URL+"/api/v1/track?shop=demo.myshopify.com&order_number=9999&contact=jane@example.com")
	require.Equal(t, http.StatusNotFound, code)
	require.False(t, body.Success)
	require.Nil(t, body.Order)
	require.Contains(t, body.Error, "not found")
}

func TestTrack_CustomNotFoundMessage(t *testing.T) {
	shop := &models.Shop{Domain: "demo.myshopify.com", TrackingEnabled: true, NotFoundMessage: "Напишите нам в поддержку."}
	srv := newTestServer(t, &fakeCommerce{}, shop, nil)

	code, body := getJSON(t, srv.URL+"/api/v1/track?shop=demo.myshopify.com&order_number=9999&contact=jane@example.com")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Напишите нам в поддержку.", body.Error)
}

func TestTrack_Validation(t *testing.T) {
	srv := newTestServer(t, &fakeCommerce{}, &models.Shop{TrackingEnabled: true}, nil)

	code, body := getJSON(t, srv.URL+"/api/v1/track?shop=demo.myshopify.com&order_number=1002")
	require.Equal(t, http.StatusBadRequest, code)
	require.False(t, body.Success)
	require.NotEmpty(t, body.Error)
}

func TestTrack_Disabled(t *testing.T) {
	srv := newTestServer(t, &fakeCommerce{}, &models.Shop{Domain: "demo.myshopify.com"}, nil)

	code, body := getJSON(t, srv.URL+"/api/v1/track?shop=demo.myshopify.com&order_number=1002&contact=jane@example.com")
	require.Equal(t, http.StatusNotFound, code)
	require.Contains(t, body.Error, "not available")
}

func TestTrack_UpstreamError(t *testing.T) {
	fc := &fakeCommerce{err: errors.New("shopify: 500")}
	srv := newTestServer(t, fc, &models.Shop{Domain: "demo.myshopify.com", TrackingEnabled: true}, nil)

	code, body := getJSON(t, srv.URL+"/api/v1/track?shop=demo.myshopify.com&order_number=1002&contact=jane@example.com")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, body.Error, "try again")
}

func TestTrack_RateLimited(t *testing.T) {
	lim := &fakeLimiter{allowed: false}
	srv := newTestServer(t, &fakeCommerce{}, &models.Shop{TrackingEnabled: true}, lim)

	code, body := getJSON(t, srv.URL+"/api/v1/track?shop=demo.myshopify.com&order_number=1002&contact=jane@example.com")
	require.Equal(t, http.StatusTooManyRequests, code)
	require.False(t, body.Success)
	require.Equal(t, 1, lim.calls)
}

func TestTrack_LimiterErrorPassesThrough(t *testing.T) {
	lim := &fakeLimiter{err: errors.New("redis down")}
	srv := newTestServer(t, &fakeCommerce{}, &models.Shop{Domain: "demo.myshopify.com", TrackingEnabled: true}, lim)

	// Лимитер недоступен, но запрос обслужен.
	code, _ := getJSON(t, srv.URL+"/api/v1/track?shop=demo.myshopify.com&order_number=9999&contact=jane@example.com")
	require.Equal(t, http.StatusNotFound, code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeCommerce{}, &models.Shop{}, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
