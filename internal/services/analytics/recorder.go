package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/BearBump/TrackPage/internal/broker/messages"
	"github.com/google/uuid"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Recorder публикует события просмотра в Kafka. Отправка fire-and-forget:
// ответ покупателю не ждёт аналитики, её ошибки только логируются.
type Recorder struct {
	producer Producer
	topic    string
	timeout  time.Duration

	wg sync.WaitGroup
}

func NewRecorder(producer Producer, topic string) *Recorder {
	return &Recorder{
		producer: producer,
		topic:    topic,
		timeout:  5 * time.Second,
	}
}

func (r *Recorder) RecordLookup(shopDomain, orderNumber string, found bool) {
	msg := messages.LookupRecorded{
		EventID:     uuid.NewString(),
		ShopDomain:  shopDomain,
		OrderNumber: orderNumber,
		Found:       found,
		CheckedAt:   time.Now().UTC(),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("marshal lookup event", "shop", shopDomain, "error", err.Error())
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		// Отвязываемся от контекста запроса: покупатель уже мог получить ответ.
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.producer.Publish(ctx, r.topic, []byte(shopDomain), b); err != nil {
			slog.Warn("record lookup", "shop", shopDomain, "error", err.Error())
		}
	}()
}

// Wait дожидается всех фоновых отправок (graceful shutdown и тесты).
func (r *Recorder) Wait() {
	r.wg.Wait()
}
