package fedexhttp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BearBump/TrackPage/internal/models"
	"github.com/stretchr/testify/require"
)

func TestClient_GetTracking_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/track/v1/trackingnumbers", r.URL.Path)
		require.Equal(t, "Bearer demo", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		require.Contains(t, string(body), "794843185271")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "output": {
    "completeTrackResults": [{
      "trackResults": [{
        "latestStatusDetail": {
          "description": "Delivered",
          "scanLocation": {"city": "Austin", "stateOrProvinceCode": "TX"}
        },
        "dateAndTimes": [{"type": "ACTUAL_DELIVERY", "dateTime": "2025-01-02T14:05:00Z"}],
        "scanEvents": [
          {"date": "2025-01-02T14:05:00Z", "eventDescription": "Delivered",
           "scanLocation": {"city": "Austin", "stateOrProvinceCode": "TX"}},
          {"date": "2025-01-02T07:30:00Z", "eventDescription": "On FedEx vehicle for delivery",
           "scanLocation": {"city": "Austin", "stateOrProvinceCode": "TX"}}
        ]
      }]
    }]
  }
}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "demo")
	snap, err := c.GetTracking(context.Background(), "794843185271")
	require.NoError(t, err)
	require.Equal(t, models.TrackingStatusDelivered, snap.Status)
	require.True(t, snap.IsLiveData)
	require.Contains(t, snap.TrackingURL, "fedex.com")
	require.Len(t, snap.Events, 2)
	require.NotNil(t, snap.CurrentLocation)
	require.Equal(t, "Austin, TX", *snap.CurrentLocation)
	require.NotNil(t, snap.EstimatedDelivery)
	require.Equal(t, time.Date(2025, 1, 2, 14, 5, 0, 0, time.UTC), *snap.EstimatedDelivery)
}

func TestClient_GetTracking_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":{"completeTrackResults":[]}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "demo")
	_, err := c.GetTracking(context.Background(), "794843185271")
	require.Error(t, err)
}
