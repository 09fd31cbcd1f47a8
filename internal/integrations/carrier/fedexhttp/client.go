package fedexhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
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
		baseURL = "https://apis.fedex.com"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type trackRequest struct {
	IncludeDetailedScans bool           `json:"includeDetailedScans"`
	TrackingInfo         []trackingInfo `json:"trackingInfo"`
}

type trackingInfo struct {
	TrackingNumberInfo trackingNumberInfo `json:"trackingNumberInfo"`
}

type trackingNumberInfo struct {
	TrackingNumber string `json:"trackingNumber"`
}

type fedexResp struct {
	Output struct {
		CompleteTrackResults []struct {
			TrackResults []struct {
				LatestStatusDetail struct {
					Description  string `json:"description"`
					ScanLocation struct {
						City            string `json:"city"`
						StateOrProvince string `json:"stateOrProvinceCode"`
					} `json:"scanLocation"`
				} `json:"latestStatusDetail"`
				DateAndTimes []struct {
					Type     string `json:"type"`
					DateTime string `json:"dateTime"` // RFC3339
				} `json:"dateAndTimes"`
				ScanEvents []struct {
					Date             string `json:"date"` // RFC3339
					EventDescription string `json:"eventDescription"`
					ScanLocation     struct {
						City            string `json:"city"`
						StateOrProvince string `json:"stateOrProvinceCode"`
					} `json:"scanLocation"`
				} `json:"scanEvents"`
			} `json:"trackResults"`
		} `json:"completeTrackResults"`
	} `json:"output"`
}

func (c *Client) GetTracking(ctx context.Context, trackNumber string) (models.TrackingSnapshot, error) {
	reqBody := trackRequest{
		IncludeDetailedScans: true,
		TrackingInfo: []trackingInfo{
			{TrackingNumberInfo: trackingNumberInfo{TrackingNumber: trackNumber}},
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/track/v1/trackingnumbers", bytes.NewReader(b))
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return models.TrackingSnapshot{}, fmt.Errorf("fedex http %d", resp.StatusCode)
	}

	var r fedexResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "decode")
	}
	if len(r.Output.CompleteTrackResults) == 0 || len(r.Output.CompleteTrackResults[0].TrackResults) == 0 {
		return models.TrackingSnapshot{}, errors.New("fedex: empty track response")
	}

	tr := r.Output.CompleteTrackResults[0].TrackResults[0]
	raw := tr.LatestStatusDetail.Description

	snap := models.TrackingSnapshot{
		Status:      carrier.NormalizeStatus(raw),
		StatusRaw:   raw,
		IsLiveData:  true,
		TrackingURL: carrier.FallbackTrackingURL("FedEx", trackNumber),
	}

	if loc := joinLocation(tr.LatestStatusDetail.ScanLocation.City, tr.LatestStatusDetail.ScanLocation.StateOrProvince); loc != "" {
		snap.CurrentLocation = &loc
	}

	for _, dt := range tr.DateAndTimes {
		if dt.Type != "ESTIMATED_DELIVERY" && dt.Type != "ACTUAL_DELIVERY" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			tt := t.UTC()
			snap.EstimatedDelivery = &tt
			break
		}
	}

	for _, e := range tr.ScanEvents {
		evTime := time.Now().UTC()
		if t, err := time.Parse(time.RFC3339, e.Date); err == nil {
			evTime = t.UTC()
		}
		desc := e.EventDescription
		loc := joinLocation(e.ScanLocation.City, e.ScanLocation.StateOrProvince)
		snap.Events = append(snap.Events, &models.TrackingEvent{
			EventTime: evTime,
			Status:    carrier.NormalizeStatus(desc),
			StatusRaw: desc,
			Message:   strPtr(desc),
			Location:  strPtr(loc),
		})
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
