package carrier

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/BearBump/TrackPage/internal/models"
)

type urlRule struct {
	match    string
	template string
}

// Название перевозчика — свободный текст от платформы, поэтому матчим
// по подстроке без учёта регистра ("UPS", "UPS Ground", "ups®").
var trackingURLRules = []urlRule{
	{"ups", "https://www.ups.com/track?tracknum=%s"},
	{"fedex", "https://www.fedex.com/fedextrack/?trknbr=%s"},
	{"usps", "https://tools.usps.com/go/TrackConfirmAction?tLabels=%s"},
	{"dhl", "https://www.dhl.com/en/express/tracking.html?AWB=%s"},
	{"canada post", "https://www.canadapost-postescanada.ca/track-reperage/en#/search?searchFor=%s"},
	{"royal mail", "https://www.royalmail.com/track-your-item#/tracking-results/%s"},
	{"australia post", "https://auspost.com.au/mypost/track/#/details/%s"},
}

// FallbackTrackingURL всегда возвращает рабочую ссылку: страницу
// перевозчика из таблицы, а для незнакомых перевозчиков — поисковый запрос.
// Покупатель в любом случае получает кликабельный след.
func FallbackTrackingURL(carrierName, trackNumber string) string {
	low := strings.ToLower(carrierName)
	for _, r := range trackingURLRules {
		if strings.Contains(low, r.match) {
			return fmt.Sprintf(r.template, url.QueryEscape(trackNumber))
		}
	}
	q := url.QueryEscape(carrierName + " tracking " + trackNumber)
	return "https://www.google.com/search?q=" + q
}

// FallbackSnapshot — синтетический снапшот на случаи: нет API-ключа,
// перевозчик не распознан, живой вызов упал.
func FallbackSnapshot(carrierName, trackNumber string) models.TrackingSnapshot {
	return models.TrackingSnapshot{
		Status:      models.TrackingStatusInTransit,
		StatusRaw:   "",
		IsLiveData:  false,
		TrackingURL: FallbackTrackingURL(carrierName, trackNumber),
		Message:     fmt.Sprintf("Live tracking data is unavailable for %s. Use the tracking link to check the latest status.", carrierName),
	}
}
