package lookup

import (
	"context"
	"strings"

	"github.com/BearBump/TrackPage/internal/integrations/commerce"
	"github.com/BearBump/TrackPage/internal/models"
	"github.com/pkg/errors"
)

// ErrOrderNotFound — по номеру и контакту ничего не нашлось.
// Отличается от транспортных ошибок платформы: их resolver пробрасывает.
var ErrOrderNotFound = errors.New("order not found")

// CleanOrderNumber убирает ведущий "#": покупатели копируют номер
// из письма вместе с ним.
func CleanOrderNumber(orderNumber string) string {
	return strings.TrimPrefix(strings.TrimSpace(orderNumber), "#")
}

type Resolver struct {
	commerce commerce.Client
}

func NewResolver(c commerce.Client) *Resolver {
	return &Resolver{commerce: c}
}

// ResolveOrder ищет заказ по номеру и подтверждает его контактом.
// Контакт сверяется строго после выборки: номер заказа сам по себе не должен
// выдавать, существует заказ или нет, — иначе по номерам можно перебирать
// чужие заказы.
func (r *Resolver) ResolveOrder(ctx context.Context, shop models.Shop, orderNumber, contact string) (*models.Order, error) {
	name := CleanOrderNumber(orderNumber)

	candidates, err := r.commerce.ListOrdersByName(ctx, shop, name)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	for _, o := range candidates {
		if matchesContact(o, contact) {
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Email сверяем без учёта регистра, телефон — дословно, без нормализации
// форматов (известное ограничение: "+1 555..." и "555..." не совпадут).
func matchesContact(o *models.Order, contact string) bool {
	if o.Email != "" && strings.EqualFold(o.Email, contact) {
		return true
	}
	if o.Phone != "" && o.Phone == contact {
		return true
	}
	return false
}
