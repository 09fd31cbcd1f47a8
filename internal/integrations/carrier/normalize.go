package carrier

import (
	"strings"

	"github.com/BearBump/TrackPage/internal/models"
)

type statusRule struct {
	keywords []string
	status   string
}

// Порядок правил фиксированный, выигрывает первое совпадение:
// "delivered" должен сработать раньше, чем, например, "returned"
// в строке "returned to sender after delivery attempt".
var statusRules = []statusRule{
	{[]string{"delivered"}, models.TrackingStatusDelivered},
	{[]string{"out for delivery"}, models.TrackingStatusOutForDelivery},
	{[]string{"in transit", "on the way"}, models.TrackingStatusInTransit},
	{[]string{"picked up", "collected"}, models.TrackingStatusPickedUp},
	{[]string{"processing", "preparing"}, models.TrackingStatusProcessing},
	{[]string{"exception", "delayed"}, models.TrackingStatusException},
	{[]string{"returned"}, models.TrackingStatusReturned},
}

// NormalizeStatus приводит сырой текст статуса перевозчика к закрытому
// набору. Пустая строка и строка без совпадений дают UNKNOWN; оригинал
// при этом сохраняется в TrackingSnapshot.StatusRaw.
func NormalizeStatus(raw string) string {
	low := strings.ToLower(strings.TrimSpace(raw))
	if low == "" {
		return models.TrackingStatusUnknown
	}
	for _, r := range statusRules {
		for _, kw := range r.keywords {
			if strings.Contains(low, kw) {
				return r.status
			}
		}
	}
	return models.TrackingStatusUnknown
}
