package pgshop

import (
	"context"
	"time"

	"github.com/BearBump/TrackPage/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// ErrShopNotFound — магазин не устанавливал приложение (или был удалён).
var ErrShopNotFound = errors.New("shop not found")

func (s *Storage) GetShop(ctx context.Context, domain string) (*models.Shop, error) {
	var sh models.Shop
	err := s.db.QueryRow(ctx, `
SELECT shop_domain, access_token, tracking_enabled, not_found_message, brand_color, created_at, updated_at
FROM shops
WHERE shop_domain = $1
`, domain).Scan(
		&sh.Domain, &sh.AccessToken, &sh.TrackingEnabled,
		&sh.NotFoundMessage, &sh.BrandColor, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select shop")
	}
	return &sh, nil
}

// UpsertShop вызывается OAuth-колбэком при установке приложения
// и админкой при смене настроек.
func (s *Storage) UpsertShop(ctx context.Context, sh models.Shop) (*models.Shop, error) {
	now := time.Now().UTC()
	_, err := s.db.Exec(ctx, `
INSERT INTO shops (shop_domain, access_token, tracking_enabled, not_found_message, brand_color, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$6)
ON CONFLICT (shop_domain)
DO UPDATE SET
  access_token = EXCLUDED.access_token,
  tracking_enabled = EXCLUDED.tracking_enabled,
  not_found_message = EXCLUDED.not_found_message,
  brand_color = EXCLUDED.brand_color,
  updated_at = EXCLUDED.updated_at
`, sh.Domain, sh.AccessToken, sh.TrackingEnabled, sh.NotFoundMessage, sh.BrandColor, now)
	if err != nil {
		return nil, errors.Wrap(err, "upsert shop")
	}
	return s.GetShop(ctx, sh.Domain)
}

func (s *Storage) SetTrackingEnabled(ctx context.Context, domain string, enabled bool) error {
	tag, err := s.db.Exec(ctx, `
UPDATE shops SET tracking_enabled = $2, updated_at = now() WHERE shop_domain = $1
`, domain, enabled)
	if err != nil {
		return errors.Wrap(err, "set tracking enabled")
	}
	if tag.RowsAffected() == 0 {
		return ErrShopNotFound
	}
	return nil
}
