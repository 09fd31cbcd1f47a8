package models

import "time"

// Нормализованные статусы (закрытый набор).
const (
	TrackingStatusUnknown        = "UNKNOWN"
	TrackingStatusProcessing     = "PROCESSING"
	TrackingStatusPickedUp       = "PICKED_UP"
	TrackingStatusInTransit      = "IN_TRANSIT"
	TrackingStatusOutForDelivery = "OUT_FOR_DELIVERY"
	TrackingStatusDelivered      = "DELIVERED"
	TrackingStatusException      = "EXCEPTION"
	TrackingStatusReturned       = "RETURNED"
)

// DisplayStatus — человекочитаемое значение статуса для JSON-ответа.
func DisplayStatus(status string) string {
	switch status {
	case TrackingStatusDelivered:
		return "Delivered"
	case TrackingStatusOutForDelivery:
		return "Out for Delivery"
	case TrackingStatusInTransit:
		return "In Transit"
	case TrackingStatusPickedUp:
		return "Picked Up"
	case TrackingStatusProcessing:
		return "Processing"
	case TrackingStatusException:
		return "Exception"
	case TrackingStatusReturned:
		return "Returned"
	default:
		return "Unknown"
	}
}

// TrackingSnapshot живёт ровно один запрос: собирается заново при каждом
// обращении, нигде не кэшируется и не сохраняется.
type TrackingSnapshot struct {
	Status            string
	StatusRaw         string
	CurrentLocation   *string
	EstimatedDelivery *time.Time
	Events            []*TrackingEvent
	IsLiveData        bool
	TrackingURL       string
	Message           string
}

type TrackingEvent struct {
	EventTime time.Time
	Status    string
	StatusRaw string
	Message   *string
	Location  *string
}
