// Package data persists per-chat preferences. The store is optional: without
// postgres configuration the bot simply runs without favorites.
package data

import (
	"errors"
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Subscriber is a chat user with a saved favorite city.
type Subscriber struct {
	gorm.Model
	ChatID int64 `gorm:"uniqueIndex"`
	City   string
}

// DB wraps the gorm handle with the operations the bot needs.
type DB struct {
	db *gorm.DB
}

// PostgresFromEnv connects using the conventional PG* environment variables.
// A missing PGHOST is reported as an error the caller can treat as
// "favorites disabled" rather than a reason to die.
func PostgresFromEnv() (*DB, error) {
	host := os.Getenv("PGHOST")
	if host == "" {
		return nil, errors.New("PGHOST not set")
	}
	dsn := fmt.Sprintf("host=%s user=postgres password=%s dbname=tidetimebot port=%s sslmode=disable TimeZone=UTC",
		host,
		os.Getenv("PGPASSWORD"),
		os.Getenv("PGPORT"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := db.AutoMigrate(&Subscriber{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{db: db}, nil
}

// SetCity saves chatID's favorite city, replacing any previous one.
func (d *DB) SetCity(chatID int64, city string) error {
	var sub Subscriber
	err := d.db.Where("chat_id = ?", chatID).First(&sub).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	sub.ChatID = chatID
	sub.City = city
	return d.db.Save(&sub).Error
}

// City returns chatID's favorite city, or "" when none is saved.
func (d *DB) City(chatID int64) (string, error) {
	var sub Subscriber
	err := d.db.Where("chat_id = ?", chatID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sub.City, nil
}
