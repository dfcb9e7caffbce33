package config

import (
	"fmt"
	"log"
	"os"

	"github.com/habbit-app/api-go/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

func GetR2Config() *R2Config {
	return &R2Config{
		AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("CLOUDFLARE_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("CLOUDFLARE_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("CLOUDFLARE_BUCKET_NAME"),
		PublicURL:       os.Getenv("CLOUDFLARE_PUBLIC_URL"),
		Region:          "auto",
	}
}

func InitDB(cfg *Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := MigrateModels(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	return db
}

// MigrateModels is shared with the test suites, which run it against an
// in-memory database.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Follow{},
		&models.Attachment{},
		&models.PlaylistCategory{},
		&models.Playlist{},
		&models.Comment{},
		&models.Message{},
		&models.Thread{},
		&models.Like{},
		&models.Notification{},
	)
}
