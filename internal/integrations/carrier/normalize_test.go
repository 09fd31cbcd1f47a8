package carrier

import (
	"testing"

	"github.com/BearBump/TrackPage/internal/models"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Delivered to front door", models.TrackingStatusDelivered},
		{"DELIVERED", models.TrackingStatusDelivered},
		{"Package is out for delivery", models.TrackingStatusOutForDelivery},
		{"In Transit to Next Facility", models.TrackingStatusInTransit},
		{"Your package is on the way", models.TrackingStatusInTransit},
		{"Picked Up by carrier", models.TrackingStatusPickedUp},
		{"Collected from sender", models.TrackingStatusPickedUp},
		{"Processing at facility", models.TrackingStatusProcessing},
		{"Preparing shipment", models.TrackingStatusProcessing},
		{"Delivery exception", models.TrackingStatusException},
		{"Shipment delayed", models.TrackingStatusException},
		{"Returned to sender", models.TrackingStatusReturned},
		{"", models.TrackingStatusUnknown},
		{"   ", models.TrackingStatusUnknown},
		{"Label created", models.TrackingStatusUnknown},
	}
	for _, c := range cases {
		require.Equal(t, c.want, NormalizeStatus(c.raw), "raw=%q", c.raw)
	}
}

func TestNormalizeStatus_FirstMatchWins(t *testing.T) {
	// Фраза содержит и "delivered", и "returned": приоритет у delivered.
	require.Equal(t, models.TrackingStatusDelivered,
		NormalizeStatus("Returned parcel was delivered to sender"))
	// "out for delivery" содержит "delivery", но не "delivered".
	require.Equal(t, models.TrackingStatusOutForDelivery,
		NormalizeStatus("Out for delivery today"))
}
