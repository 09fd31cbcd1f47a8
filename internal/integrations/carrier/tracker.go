package carrier

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BearBump/TrackPage/internal/models"
)

type clientRule struct {
	match  string
	client Client
}

// Tracker выбирает адаптер перевозчика по подстроке в его названии.
// Track никогда не возвращает ошибку: любой сбой живого вызова или
// отсутствие адаптера заканчивается fallback-снапшотом.
type Tracker struct {
	clients []clientRule
}

// New собирает диспетчер. Порядок проверки фиксированный: UPS, FedEx,
// USPS, DHL. nil-клиент означает "ключ не сконфигурирован" — такой
// перевозчик уходит в fallback без сетевого вызова.
func New(ups, fedex, usps, dhl Client) *Tracker {
	t := &Tracker{}
	add := func(match string, c Client) {
		if c != nil {
			t.clients = append(t.clients, clientRule{match: match, client: c})
		}
	}
	add("ups", ups)
	add("fedex", fedex)
	add("usps", usps)
	add("dhl", dhl)
	return t
}

func (t *Tracker) Track(ctx context.Context, carrierName, trackNumber string) models.TrackingSnapshot {
	low := strings.ToLower(carrierName)
	for _, r := range t.clients {
		if !strings.Contains(low, r.match) {
			continue
		}
		snap, err := r.client.GetTracking(ctx, trackNumber)
		if err != nil {
			// Ретраев нет: одна неудачная попытка — сразу fallback.
			slog.Warn("carrier call failed, using fallback",
				"carrier", carrierName, "track_number", trackNumber, "error", err.Error())
			break
		}
		if snap.TrackingURL == "" {
			snap.TrackingURL = FallbackTrackingURL(carrierName, trackNumber)
		}
		return snap
	}
	return FallbackSnapshot(carrierName, trackNumber)
}
