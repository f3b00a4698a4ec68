package models

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/permissions"
	console "github.com/hamzat06/esk-sub000/internal/utils/logger"
)

var log = console.New("SEEDER")

// SeedShopSettings creates the settings row if none exists, seeded from the
// configured defaults.
func SeedShopSettings(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&ShopSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	settings := ShopSettings{
		DeliveryFee: cfg.Shop.DefaultDeliveryFee,
		Open:        true,
	}
	if err := db.Create(&settings).Error; err != nil {
		return fmt.Errorf("failed to seed shop settings: %v", err)
	}
	log.Success("Seeded shop settings (delivery fee %.2f)", settings.DeliveryFee)
	return nil
}

// CreateSuperAdminFromEnv bootstraps the first unrestricted admin so the back
// office is reachable on a fresh database. No-op if one already exists.
func CreateSuperAdminFromEnv(db *gorm.DB, cfg *config.Config) error {
	var count int64
	db.Model(&Profile{}).Where("role = ? AND access IS NULL", UserRoleAdmin).Count(&count)
	log.Info("Super admin count: %d", count)
	if count > 0 {
		return nil
	}

	email, ok := os.LookupEnv("SUPERADMIN_EMAIL")
	if !ok {
		return fmt.Errorf("SUPERADMIN_EMAIL not set")
	}

	password, ok := os.LookupEnv("SUPERADMIN_PASSWORD")
	if !ok {
		return fmt.Errorf("SUPERADMIN_PASSWORD not set")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	name, ok := os.LookupEnv("SUPERADMIN_NAME")
	if !ok {
		return fmt.Errorf("SUPERADMIN_NAME not set")
	}

	profile := Profile{
		Email:    email,
		Password: string(hashedPassword),
		FullName: name,
		Role:     UserRoleAdmin,
		Access:   permissions.Unrestricted(),
	}

	if err := db.Create(&profile).Error; err != nil {
		return fmt.Errorf("failed to create super admin profile: %v", err)
	}

	return nil
}
