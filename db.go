package main

import (
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

var listCache = cache.New(5*time.Minute, 10*time.Minute)

func initDB(path string) error {
	var err error
	db, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	// Auto Migrate the schema
	return db.AutoMigrate(&Project{}, &SkillCategory{}, &Experience{}, &Research{}, &Admin{})
}

// ensureAdmin bootstraps the singleton credential row on first run. Content
// seeding stays outside the server; only the admin row is created here, and
// only when ADMIN_EMAIL / ADMIN_PASSWORD are provided.
func ensureAdmin(cfg Config) error {
	var count int64
	if err := db.Model(&Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Warn("Admin user does not exist. Set ADMIN_EMAIL and ADMIN_PASSWORD to create it.")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := db.Create(&Admin{Username: cfg.AdminEmail, Password: string(hash)}).Error; err != nil {
		return err
	}
	log.WithField("username", cfg.AdminEmail).Info("Admin user created")
	return nil
}

func getCachedList(key string, fetchFunc func() (interface{}, error)) (interface{}, error) {
	if data, found := listCache.Get(key); found {
		return data, nil
	}

	data, err := fetchFunc()
	if err != nil {
		return nil, err
	}

	listCache.Set(key, data, cache.DefaultExpiration)
	return data, nil
}

func invalidateList(key string) {
	listCache.Delete(key)
}
