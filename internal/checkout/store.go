package checkout

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/orders"
)

// GormStore is the production OrderStore.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) NextOrderNumber(ctx context.Context) (string, error) {
	return orders.NewOrderNumber(s.db.WithContext(ctx))
}

func (s *GormStore) Insert(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *GormStore) SetSessionID(ctx context.Context, orderID, sessionID string) error {
	return s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("checkout_session_id", sessionID).Error
}

// SettingsStore reads the delivery fee from the shop settings row, falling
// back to the configured default when the row is missing.
type SettingsStore struct {
	db       *gorm.DB
	fallback float64
}

func NewSettingsStore(db *gorm.DB, cfg *config.Config) *SettingsStore {
	return &SettingsStore{db: db, fallback: cfg.Shop.DefaultDeliveryFee}
}

func (s *SettingsStore) DeliveryFee(ctx context.Context) (float64, error) {
	var settings models.ShopSettings
	err := s.db.WithContext(ctx).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.fallback, nil
		}
		return 0, err
	}
	return settings.DeliveryFee, nil
}
