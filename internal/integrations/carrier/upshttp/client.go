package upshttp

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
		baseURL = "https://onlinetools.ups.com"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type upsResp struct {
	TrackResponse struct {
		Shipment []struct {
			Package []struct {
				CurrentStatus struct {
					Description string `json:"description"`
				} `json:"currentStatus"`
				DeliveryDate []struct {
					Type string `json:"type"`
					Date string `json:"date"` // YYYYMMDD
				} `json:"deliveryDate"`
				Activity []struct {
					Location struct {
						Address struct {
							City          string `json:"city"`
							StateProvince string `json:"stateProvince"`
							Country       string `json:"country"`
						} `json:"address"`
					} `json:"location"`
					Status struct {
						Description string `json:"description"`
					} `json:"status"`
					Date string `json:"date"` // YYYYMMDD
					Time string `json:"time"` // HHMMSS
				} `json:"activity"`
			} `json:"package"`
		} `json:"shipment"`
	} `json:"trackResponse"`
}

func (c *Client) GetTracking(ctx context.Context, trackNumber string) (models.TrackingSnapshot, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "parse base url")
	}
	u.Path = fmt.Sprintf("/api/track/v1/details/%s", url.PathEscape(trackNumber))
	q := u.Query()
	q.Set("locale", "en_US")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("transId", trackNumber)
	req.Header.Set("transactionSrc", "trackpage")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return models.TrackingSnapshot{}, fmt.Errorf("ups http %d", resp.StatusCode)
	}

	var r upsResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return models.TrackingSnapshot{}, errors.Wrap(err, "decode")
	}
	if len(r.TrackResponse.Shipment) == 0 || len(r.TrackResponse.Shipment[0].Package) == 0 {
		return models.TrackingSnapshot{}, errors.New("ups: empty track response")
	}

	pkg := r.TrackResponse.Shipment[0].Package[0]
	raw := pkg.CurrentStatus.Description

	snap := models.TrackingSnapshot{
		Status:      carrier.NormalizeStatus(raw),
		StatusRaw:   raw,
		IsLiveData:  true,
		TrackingURL: carrier.FallbackTrackingURL("UPS", trackNumber),
	}

	for _, d := range pkg.DeliveryDate {
		// DEL — фактическая дата, RDD/SDD — плановые. Для оценки годится любая.
		if t, err := time.ParseInLocation("20060102", d.Date, time.UTC); err == nil {
			snap.EstimatedDelivery = &t
			break
		}
	}

	for _, a := range pkg.Activity {
		desc := a.Status.Description
		loc := joinLocation(a.Location.Address.City, a.Location.Address.StateProvince)
		ev := &models.TrackingEvent{
			EventTime: parseActivityTime(a.Date, a.Time),
			Status:    carrier.NormalizeStatus(desc),
			StatusRaw: desc,
			Message:   strPtr(desc),
			Location:  strPtr(loc),
		}
		snap.Events = append(snap.Events, ev)
	}

	// Activity идёт от свежего к старому: локация берётся из первого события.
	if len(pkg.Activity) > 0 {
		loc := joinLocation(pkg.Activity[0].Location.Address.City, pkg.Activity[0].Location.Address.StateProvince)
		snap.CurrentLocation = strPtr(loc)
	}

	return snap, nil
}

func parseActivityTime(date, tm string) time.Time {
	if t, err := time.ParseInLocation("20060102 150405", date+" "+tm, time.UTC); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("20060102", date, time.UTC); err == nil {
		return t
	}
	return time.Now().UTC()
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
