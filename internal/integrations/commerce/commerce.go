package commerce

import (
	"context"

	"github.com/BearBump/TrackPage/internal/models"
)

// Client — read-only доступ к заказам торговой платформы.
// Shop передаётся в каждый вызов: приложение мультитенантное,
// токен доступа принадлежит магазину, а не процессу.
type Client interface {
	// ListOrdersByName возвращает кандидатов с данным номером заказа
	// (без "#"), по всем статусам, небольшой страницей. Поиск платформы
	// может быть нечётким, поэтому точный отбор делает вызывающий.
	ListOrdersByName(ctx context.Context, shop models.Shop, name string) ([]*models.Order, error)

	// ListFulfillments возвращает все отправления заказа.
	// Пустой список — валидный ответ: заказ ещё не отправлен.
	ListFulfillments(ctx context.Context, shop models.Shop, orderID uint64) ([]*models.Fulfillment, error)
}
