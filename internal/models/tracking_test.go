package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplayStatus(t *testing.T) {
	require.Equal(t, "Delivered", DisplayStatus(TrackingStatusDelivered))
	require.Equal(t, "Out for Delivery", DisplayStatus(TrackingStatusOutForDelivery))
	require.Equal(t, "In Transit", DisplayStatus(TrackingStatusInTransit))
	require.Equal(t, "Unknown", DisplayStatus(TrackingStatusUnknown))
	// Любая строка вне набора тоже показывается как Unknown.
	require.Equal(t, "Unknown", DisplayStatus("some raw carrier text"))
}
