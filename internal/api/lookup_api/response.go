package lookup_api

import (
	"time"

	"github.com/BearBump/TrackPage/internal/models"
	"github.com/BearBump/TrackPage/internal/services/lookup"
)

// Поля заказа и отправлений идут в snake_case, как их отдаёт платформа;
// enhancedTracking в camelCase — его читает виджет на витрине.

type trackResponse struct {
	Success bool       `json:"success"`
	Order   *orderJSON `json:"order,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type orderJSON struct {
	OrderNumber       string            `json:"order_number"`
	CreatedAt         string            `json:"created_at"`
	FinancialStatus   string            `json:"financial_status"`
	FulfillmentStatus string            `json:"fulfillment_status"`
	TotalPrice        string            `json:"total_price"`
	Currency          string            `json:"currency"`
	LineItems         []lineItemJSON    `json:"line_items"`
	Fulfillments      []fulfillmentJSON `json:"fulfillments"`
	EnhancedTracking  *enhancedJSON     `json:"enhancedTracking,omitempty"`
}

type lineItemJSON struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type fulfillmentJSON struct {
	Status          string         `json:"status"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
	TrackingCompany string         `json:"tracking_company"`
	TrackingNumber  string         `json:"tracking_number"`
	TrackingURL     string         `json:"tracking_url,omitempty"`
	ShipmentStatus  string         `json:"shipment_status,omitempty"`
	LineItems       []lineItemJSON `json:"line_items"`
}

type enhancedJSON struct {
	Status            string      `json:"status"`
	CurrentLocation   string      `json:"currentLocation,omitempty"`
	EstimatedDelivery string      `json:"estimatedDelivery,omitempty"`
	Events            []eventJSON `json:"events"`
	IsLiveData        bool        `json:"isLiveData"`
	TrackingURL       string      `json:"trackingUrl,omitempty"`
	Message           string      `json:"message,omitempty"`
}

type eventJSON struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

func toOrderJSON(res *lookup.Result) *orderJSON {
	o := res.Order
	out := &orderJSON{
		OrderNumber:       o.Name,
		CreatedAt:         formatTime(o.CreatedAt),
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		TotalPrice:        o.TotalPrice,
		Currency:          o.Currency,
		LineItems:         toLineItemsJSON(o.LineItems),
		Fulfillments:      make([]fulfillmentJSON, 0, len(res.Fulfillments)),
		EnhancedTracking:  toEnhancedJSON(res.Enhanced),
	}
	for _, f := range res.Fulfillments {
		out.Fulfillments = append(out.Fulfillments, fulfillmentJSON{
			Status:          f.Status,
			CreatedAt:       formatTime(f.CreatedAt),
			UpdatedAt:       formatTime(f.UpdatedAt),
			TrackingCompany: f.TrackingCompany,
			TrackingNumber:  f.TrackingNumber,
			TrackingURL:     f.TrackingURL,
			ShipmentStatus:  f.ShipmentStatus,
			LineItems:       toLineItemsJSON(f.LineItems),
		})
	}
	return out
}

func toEnhancedJSON(snap *models.TrackingSnapshot) *enhancedJSON {
	if snap == nil {
		return nil
	}
	out := &enhancedJSON{
		Status:     models.DisplayStatus(snap.Status),
		Events:     make([]eventJSON, 0, len(snap.Events)),
		IsLiveData: snap.IsLiveData,
		TrackingURL: snap.TrackingURL,
		Message:    snap.Message,
	}
	if snap.CurrentLocation != nil {
		out.CurrentLocation = *snap.CurrentLocation
	}
	if snap.EstimatedDelivery != nil {
		out.EstimatedDelivery = snap.EstimatedDelivery.Format("2006-01-02")
	}
	for _, ev := range snap.Events {
		e := eventJSON{
			Date:   ev.EventTime.Format("2006-01-02"),
			Time:   ev.EventTime.Format("15:04"),
			Status: models.DisplayStatus(ev.Status),
		}
		if ev.Message != nil {
			e.Description = *ev.Message
		} else {
			e.Description = ev.StatusRaw
		}
		if ev.Location != nil {
			e.Location = *ev.Location
		}
		out.Events = append(out.Events, e)
	}
	return out
}

func toLineItemsJSON(items []models.LineItem) []lineItemJSON {
	out := make([]lineItemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, lineItemJSON{Title: it.Title, Quantity: it.Quantity, Price: it.Price})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
