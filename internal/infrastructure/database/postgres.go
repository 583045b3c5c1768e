package database

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
	"github.com/terracottic/storefront-api/internal/config"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/enum"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},

		// Catalog entities
		&entity.Product{},

		// Cart entities
		&entity.Cart{},
		&entity.CartItem{},

		// Pricing entities
		&entity.Coupon{},

		// Order entities
		&entity.Order{},
		&entity.OrderItem{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (admin user, starter coupons)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Admin"
				}
				admin := entity.User{
					FirstName: adminName,
					Email:     adminEmail,
					Password:  string(hashedPassword),
					Role:      entity.RoleAdmin,
				}
				if err := db.Create(&admin).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Created admin user: %s", adminEmail)
				}
			}
		}
	}

	// Starter coupons, skipped when the code already exists
	maxWelcome := int64(50000)
	welcomeDesc := "10% off your first order"
	freeshipDesc := "Free shipping on any order"
	flatDesc := "Rs.200 off your order"
	coupons := []entity.Coupon{
		{Code: "WELCOME10", Type: enum.CouponPercentage, Value: 10, MaxDiscount: &maxWelcome, Description: &welcomeDesc, Active: true},
		{Code: "FREESHIP", Type: enum.CouponFreeShipping, Description: &freeshipDesc, Active: true},
		{Code: "FLAT200", Type: enum.CouponFixed, Value: 20000, Description: &flatDesc, Active: true},
	}

	for i := range coupons {
		var existing entity.Coupon
		if err := db.Where("code = ?", coupons[i].Code).First(&existing).Error; err != nil {
			if err := db.Create(&coupons[i]).Error; err != nil {
				log.Printf("Warning: failed to create coupon %s: %v", coupons[i].Code, err)
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
