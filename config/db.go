package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"roomdesk-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mustParseDate(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		log.Fatalf("Error parsing date for seeding (%s): %v", value, err)
	}
	return t
}

// SeedDatabase provisions a demo tenant on an empty database so a fresh
// install is immediately usable: one site, its two default back-office
// accounts, a room type with units, and a sample wildcard seasonal rate.
func SeedDatabase(db *gorm.DB, cfg *AppConfig) {
	if !cfg.SeedDemoSite {
		return
	}

	var siteCount int64
	db.Model(&models.SiteConfig{}).Count(&siteCount)
	if siteCount > 0 {
		return
	}

	site := models.SiteConfig{
		Extension:              "demo",
		HotelName:              "Demo Hotel",
		Highlights:             "Sea view rooms, free breakfast",
		AboutDescription:       "A small demo property created on first run.",
		IsActive:               true,
		ThemeID:                "classic",
		BookingExpirationHours: 24,
	}
	if err := db.Create(&site).Error; err != nil {
		log.Printf("warning: failed to seed demo site: %v", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("SEED_ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("warning: failed to hash seed password: %v", err)
		return
	}
	users := []models.User{
		{SiteConfigID: &site.ID, Username: site.Extension + "_ad", PasswordHash: string(hash), Role: models.RoleAdmin},
		{SiteConfigID: &site.ID, Username: site.Extension + "_user", PasswordHash: string(hash), Role: models.RoleStaff},
	}
	if err := db.Create(&users).Error; err != nil {
		log.Printf("warning: failed to seed demo users: %v", err)
	}

	roomType := models.RoomType{
		SiteConfigID:  site.ID,
		Name:          "Standard Room",
		Description:   "Queen bed, city view",
		PricePerNight: 100,
		TotalQuantity: 2,
		Capacity:      2,
	}
	if err := db.Create(&roomType).Error; err != nil {
		log.Printf("warning: failed to seed demo room type: %v", err)
		return
	}
	units := []models.RoomUnit{
		{RoomTypeID: roomType.ID, Label: "Standard Room #1"},
		{RoomTypeID: roomType.ID, Label: "Standard Room #2"},
	}
	if err := db.Create(&units).Error; err != nil {
		log.Printf("warning: failed to seed demo units: %v", err)
	}

	season := models.SeasonalRate{
		SiteConfigID: site.ID,
		Name:         "High Season",
		StartDate:    mustParseDate("2026-07-01"),
		EndDate:      mustParseDate("2026-08-31"),
		Multiplier:   1.25,
	}
	if err := db.Create(&season).Error; err != nil {
		log.Printf("warning: failed to seed demo season: %v", err)
	}

	log.Println("Demo site seeded (extension: demo)")
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, dbName, nil
}

func resolveMySQLDSN() (string, string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, strings.TrimSpace(os.Getenv("DB_NAME")), nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "roomdesk_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	)
	return dsn, dbName, nil
}

// ConnectDatabase opens the MySQL store, migrates the schema in
// parent-to-child order, and seeds an empty database. The handle is returned
// to the caller; there is no package-level connection.
func ConnectDatabase(cfg *AppConfig) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.SiteConfig{},
		&models.User{},
		&models.RoomType{},
		&models.RoomUnit{},
		&models.RoomImage{},
		&models.HeroImage{},
		&models.SeasonalRate{},
		&models.Booking{},
		&models.MaintenanceBlock{},
		&models.AuditLog{},
		&models.Visitor{},
	); err != nil {
		return nil, err
	}

	SeedDatabase(db, cfg)
	return db, nil
}
