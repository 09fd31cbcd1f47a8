package messages

import "time"

// LookupRecorded — событие "покупатель посмотрел трекинг".
// Публикуется API fire-and-forget, записывается в БД analytics-worker'ом.
// EventID нужен для идемпотентной записи: Kafka доставляет at-least-once.
type LookupRecorded struct {
	EventID     string    `json:"event_id"`
	ShopDomain  string    `json:"shop_domain"`
	OrderNumber string    `json:"order_number"`
	Found       bool      `json:"found"`
	CheckedAt   time.Time `json:"checked_at"`
}
