package uspshttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/BearBump/TrackPage/internal/integrations/carrier"
	"github.com/BearBump/TrackPage/internal/models"
	"github.com/pkg/errors"
)

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.usps.com"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type uspsResp struct {
	TrackingNumber       string `json:"trackingNumber"`
	StatusSummary        string `json:"statusSummary"`
	Status               string `json:"status"`
	ExpectedDeliveryDate string `json:"expectedDeliveryDate"` // YYYY-MM-DD
	TrackingEvents       []struct {
		EventType      string `json:"eventType"`
		EventTimestamp string `json:"eventTimestamp"` // RFC3339
		EventCity      string `json:"eventCity"`
		EventState     string `json:"eventState"`
	} `json:"trackingEvents"`
}

func (c *Client) GetTracking(ctx context.Context, trackNumber string) (models.TrackingSnapshot, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "parse base url")
	}
	u.Path = fmt.Sprintf("/tracking/v3/tracking/%s", url.PathEscape(trackNumber))
	q := u.Query()
	q.Set("expand", "DETAIL")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return models.TrackingSnapshot{}, fmt.Errorf("usps http %d", resp.StatusCode)
	}

	var r uspsResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "decode")
	}

	// USPS даёт и краткий status, и summary-фразу; summary информативнее.
	raw := r.StatusSummary
	if raw == "" {
		raw = r.Status
	}

	snap := models.TrackingSnapshot{
		Status:      carrier.NormalizeStatus(raw),
		StatusRaw:   raw,
		IsLiveData:  true,
		TrackingURL: carrier.FallbackTrackingURL("USPS", trackNumber),
	}

	if r.ExpectedDeliveryDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", r.ExpectedDeliveryDate, time.UTC); err == nil {
			snap.EstimatedDelivery = &t
		}
	}

	for _, e := range r.TrackingEvents {
		evTime := time.Now().UTC()
		if t, err := time.Parse(time.RFC3339, e.EventTimestamp); err == nil {
			evTime = t.UTC()
		}
		loc := joinLocation(e.EventCity, e.EventState)
		snap.Events = append(snap.Events, &models.TrackingEvent{
			EventTime: evTime,
			Status:    carrier.NormalizeStatus(e.EventType),
			StatusRaw: e.EventType,
			Message:   strPtr(e.EventType),
			Location:  strPtr(loc),
		})
	}

	if len(r.TrackingEvents) > 0 {
		loc := joinLocation(r.TrackingEvents[0].EventCity, r.TrackingEvents[0].EventState)
		snap.CurrentLocation = strPtr(loc)
	}

	return snap, nil
}

func joinLocation(city, region string) string {
	switch {
	case city == "":
		return region
	case region == "":
		return city
	default:
		return city + ", " + region
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
