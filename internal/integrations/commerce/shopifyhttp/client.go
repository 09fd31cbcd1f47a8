package shopifyhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BearBump/TrackPage/internal/models"
	"github.com/pkg/errors"
)

const defaultAPIVersion = "2024-01"

// Client ходит в Shopify Admin REST API. Домен магазина и токен приходят
// с каждым вызовом (models.Shop); baseURL переопределяется только в тестах.
type Client struct {
	baseURL    string
	apiVersion string
	httpc      *http.Client
}

func New(baseURL, apiVersion string) *Client {
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	return &Client{
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type orderJSON struct {
	ID                uint64         `json:"id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Phone             string         `json:"phone"`
	CreatedAt         time.Time      `json:"created_at"`
	FinancialStatus   string         `json:"financial_status"`
	FulfillmentStatus string         `json:"fulfillment_status"`
	TotalPrice        string         `json:"total_price"`
	Currency          string         `json:"currency"`
	LineItems         []lineItemJSON `json:"line_items"`
}

type lineItemJSON struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type fulfillmentJSON struct {
	ID              uint64         `json:"id"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	TrackingCompany string         `json:"tracking_company"`
	TrackingNumber  string         `json:"tracking_number"`
	TrackingURL     string         `json:"tracking_url"`
	ShipmentStatus  string         `json:"shipment_status"`
	LineItems       []lineItemJSON `json:"line_items"`
}

func (c *Client) ListOrdersByName(ctx context.Context, shop models.Shop, name string) ([]*models.Order, error) {
	// Поиск по имени заказа должен вернуть <=1 настоящего совпадения,
	// но платформа иногда матчит шире — страницу всё равно ограничиваем.
	q := url.Values{}
	q.Set("name", name)
	q.Set("status", "any")
	q.Set("limit", "10")

	var body struct {
		Orders []orderJSON `json:"orders"`
	}
	if err := c.get(ctx, shop, "orders.json", q, &body); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	out := make([]*models.Order, 0, len(body.Orders))
	for _, o := range body.Orders {
		out = append(out, &models.Order{
			ID:                o.ID,
			Name:              o.Name,
			Email:             o.Email,
			Phone:             o.Phone,
			CreatedAt:         o.CreatedAt,
			FinancialStatus:   o.FinancialStatus,
			FulfillmentStatus: o.FulfillmentStatus,
			TotalPrice:        o.TotalPrice,
			Currency:          o.Currency,
			LineItems:         toLineItems(o.LineItems),
		})
	}
	return out, nil
}

func (c *Client) ListFulfillments(ctx context.Context, shop models.Shop, orderID uint64) ([]*models.Fulfillment, error) {
	var body struct {
		Fulfillments []fulfillmentJSON `json:"fulfillments"`
	}
	path := fmt.Sprintf("orders/%s/fulfillments.json", strconv.FormatUint(orderID, 10))
	if err := c.get(ctx, shop, path, nil, &body); err != nil {
		return nil, errors.Wrap(err, "list fulfillments")
	}

	out := make([]*models.Fulfillment, 0, len(body.Fulfillments))
	for _, f := range body.Fulfillments {
		out = append(out, &models.Fulfillment{
			ID:              f.ID,
			Status:          f.Status,
			CreatedAt:       f.CreatedAt,
			UpdatedAt:       f.UpdatedAt,
			TrackingCompany: f.TrackingCompany,
			TrackingNumber:  f.TrackingNumber,
			TrackingURL:     f.TrackingURL,
			ShipmentStatus:  f.ShipmentStatus,
			LineItems:       toLineItems(f.LineItems),
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, shop models.Shop, path string, q url.Values, out any) error {
	root := c.baseURL
	if root == "" {
		root = "https://" + normalizeDomain(shop.Domain)
	}

	u, err := url.Parse(root)
	if err != nil {
		return errors.Wrap(err, "parse shop url")
	}
	u.Path = fmt.Sprintf("/admin/api/%s/%s", c.apiVersion, path)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", shop.AccessToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("shopify http %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}

func toLineItems(items []lineItemJSON) []models.LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.LineItem{
			Title:    it.Title,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return out
}

// В настройках магазина домен встречается и со схемой, и со слэшем на конце.
func normalizeDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimSuffix(domain, "/")
}
