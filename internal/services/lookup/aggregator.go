package lookup

import (
	"context"
	"log/slog"

	"github.com/BearBump/TrackPage/internal/integrations/commerce"
	"github.com/BearBump/TrackPage/internal/models"
)

// Tracker — диспетчер перевозчиков. Никогда не возвращает ошибку:
// худший случай — fallback-снапшот.
type Tracker interface {
	Track(ctx context.Context, carrierName, trackNumber string) models.TrackingSnapshot
}

type Aggregator struct {
	commerce commerce.Client
	tracker  Tracker
}

func NewAggregator(c commerce.Client, t Tracker) *Aggregator {
	return &Aggregator{commerce: c, tracker: t}
}

// Aggregate подтягивает отправления заказа и обогащает живым трекингом
// первое из них, у которого есть и перевозчик, и трек-номер. Остальные
// остаются с базовой информацией: одна посылка на заказ — подавляющий
// случай, обогащение всех отправлений — отдельное продуктовое решение.
//
// Агрегация не роняет пайплайн: ошибка выборки отправлений деградирует
// до пустого списка (заказ показываем как "ещё не отправлен").
func (a *Aggregator) Aggregate(ctx context.Context, shop models.Shop, order *models.Order) ([]*models.Fulfillment, *models.TrackingSnapshot) {
	fulfillments, err := a.commerce.ListFulfillments(ctx, shop, order.ID)
	if err != nil {
		slog.Warn("list fulfillments failed, degrading to order-only response",
			"shop", shop.Domain, "order_id", order.ID, "error", err.Error())
		return []*models.Fulfillment{}, nil
	}

	for _, f := range fulfillments {
		if f.TrackingCompany == "" || f.TrackingNumber == "" {
			continue
		}
		snap := a.tracker.Track(ctx, f.TrackingCompany, f.TrackingNumber)
		return fulfillments, &snap
	}
	return fulfillments, nil
}
