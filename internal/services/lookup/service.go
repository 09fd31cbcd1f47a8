package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BearBump/TrackPage/internal/cache"
	"github.com/BearBump/TrackPage/internal/models"
	"github.com/BearBump/TrackPage/internal/storage/pgshop"
	"github.com/pkg/errors"
)

// ErrTrackingDisabled — мерчант выключил страницу трекинга в настройках.
var ErrTrackingDisabled = errors.New("tracking page is disabled")

// ValidationError — запрос отвергнут до единого сетевого вызова.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// NotFoundError несёт настраиваемое мерчантом сообщение (может быть пустым).
// Текст ошибки намеренно одинаковый для "нет такого заказа" и "контакт
// не совпал" — чтобы по ответам нельзя было перебирать номера.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return "order not found" }

type ShopStore interface {
	GetShop(ctx context.Context, domain string) (*models.Shop, error)
}

// Recorder пишет аналитику fire-and-forget: вызов не блокирует и не ломает
// ответ покупателю, что бы ни случилось внутри.
type Recorder interface {
	RecordLookup(shopDomain, orderNumber string, found bool)
}

type Result struct {
	Order        *models.Order
	Fulfillments []*models.Fulfillment
	Enhanced     *models.TrackingSnapshot
}

type Service struct {
	shops    ShopStore
	cache    cache.BytesCache
	shopTTL  time.Duration
	resolver *Resolver
	agg      *Aggregator
	recorder Recorder
}

func New(shops ShopStore, c cache.BytesCache, shopTTL time.Duration, resolver *Resolver, agg *Aggregator, recorder Recorder) *Service {
	return &Service{
		shops:    shops,
		cache:    c,
		shopTTL:  shopTTL,
		resolver: resolver,
		agg:      agg,
		recorder: recorder,
	}
}

// Lookup — весь пайплайн трекинга: валидация -> настройки магазина ->
// поиск заказа -> отправления (+живой трекинг) -> аналитика.
// Шаги линейные, без ретраев.
func (s *Service) Lookup(ctx context.Context, shopDomain, orderNumber, contact string) (*Result, error) {
	if strings.TrimSpace(shopDomain) == "" {
		return nil, ValidationError("shop is required")
	}
	if strings.TrimSpace(orderNumber) == "" {
		return nil, ValidationError("order number is required")
	}
	if strings.TrimSpace(contact) == "" {
		return nil, ValidationError("email or phone is required")
	}

	shop, err := s.getShop(ctx, shopDomain)
	if err != nil {
		// Неизвестный магазин наружу выглядит так же, как выключенный
		// трекинг: страница недоступна.
		if errors.Is(err, pgshop.ErrShopNotFound) {
			return nil, ErrTrackingDisabled
		}
		return nil, err
	}
	if !shop.TrackingEnabled {
		return nil, ErrTrackingDisabled
	}

	order, err := s.resolver.ResolveOrder(ctx, *shop, orderNumber, contact)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			s.record(shopDomain, orderNumber, false)
			return nil, &NotFoundError{Message: shop.NotFoundMessage}
		}
		// Детали пишем в лог; наружу уйдёт общий "попробуйте позже".
		slog.Error("resolve order", "shop", shopDomain, "error", err.Error())
		return nil, errors.Wrap(err, "resolve order")
	}

	fulfillments, enhanced := s.agg.Aggregate(ctx, *shop, order)

	s.record(shopDomain, orderNumber, true)

	return &Result{
		Order:        order,
		Fulfillments: fulfillments,
		Enhanced:     enhanced,
	}, nil
}

func (s *Service) record(shopDomain, orderNumber string, found bool) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordLookup(shopDomain, orderNumber, found)
}

// getShop кэширует настройки магазина: их читает каждый запрос,
// а меняются они редко. Кэш best-effort — при любой ошибке идём в БД.
func (s *Service) getShop(ctx context.Context, domain string) (*models.Shop, error) {
	key := shopKey(domain)

	if s.cache != nil && s.shopTTL > 0 {
		if b, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var sh models.Shop
			if json.Unmarshal(b, &sh) == nil {
				return &sh, nil
			}
		}
	}

	sh, err := s.shops.GetShop(ctx, domain)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.shopTTL > 0 {
		b, _ := json.Marshal(sh)
		_ = s.cache.Set(ctx, key, b, s.shopTTL)
	}
	return sh, nil
}

func shopKey(domain string) string {
	return fmt.Sprintf("shop:%s:settings", domain)
}
