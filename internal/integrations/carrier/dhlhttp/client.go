package dhlhttp

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
		baseURL = "https://api-eu.dhl.com"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type dhlLocation struct {
	Address struct {
		AddressLocality string `json:"addressLocality"`
	} `json:"address"`
}

type dhlResp struct {
	Shipments []struct {
		Status struct {
			Timestamp   string      `json:"timestamp"`
			Location    dhlLocation `json:"location"`
			Description string      `json:"description"`
		} `json:"status"`
		EstimatedTimeOfDelivery string `json:"estimatedTimeOfDelivery"`
		Events                  []struct {
			Timestamp   string      `json:"timestamp"`
			Location    dhlLocation `json:"location"`
			Description string      `json:"description"`
		} `json:"events"`
	} `json:"shipments"`
}

func (c *Client) GetTracking(ctx context.Context, trackNumber string) (models.TrackingSnapshot, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "parse base url")
	}
	u.Path = "/track/shipments"
	q := u.Query()
	q.Set("trackingNumber", trackNumber)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("DHL-API-Key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return models.TrackingSnapshot{}, fmt.Errorf("dhl rate limit (429)")
	}
	if resp.StatusCode/100 != 2 {
		return models.TrackingSnapshot{}, fmt.Errorf("dhl http %d", resp.StatusCode)
	}

	var r dhlResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "decode")
	}
	if len(r.Shipments) == 0 {
		return models.TrackingSnapshot{}, errors.New("dhl: empty track response")
	}

	sh := r.Shipments[0]
	raw := sh.Status.Description

	snap := models.TrackingSnapshot{
		Status:      carrier.NormalizeStatus(raw),
		StatusRaw:   raw,
		IsLiveData:  true,
		TrackingURL: carrier.FallbackTrackingURL("DHL", trackNumber),
	}

	if loc := sh.Status.Location.Address.AddressLocality; loc != "" {
		snap.CurrentLocation = &loc
	}
	if sh.EstimatedTimeOfDelivery != "" {
		if t, err := parseDHLTime(sh.EstimatedTimeOfDelivery); err == nil {
			snap.EstimatedDelivery = &t
		}
	}

	for _, e := range sh.Events {
		evTime := time.Now().UTC()
		if t, err := parseDHLTime(e.Timestamp); err == nil {
			evTime = t
		}
		snap.Events = append(snap.Events, &models.TrackingEvent{
			EventTime: evTime,
			Status:    carrier.NormalizeStatus(e.Description),
			StatusRaw: e.Description,
			Message:   strPtr(e.Description),
			Location:  strPtr(e.Location.Address.AddressLocality),
		})
	}

	return snap, nil
}

// DHL шлёт то RFC3339, то локальное время без зоны.
func parseDHLTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse dhl time")
	}
	return t, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
