package carrier

import (
	"context"

	"github.com/BearBump/TrackPage/internal/models"
)

// Client — адаптер одного перевозчика. Формат ответа перевозчика
// не должен просачиваться выше этого пакета: адаптер сразу
// конвертирует его в TrackingSnapshot.
type Client interface {
	GetTracking(ctx context.Context, trackNumber string) (models.TrackingSnapshot, error)
}
