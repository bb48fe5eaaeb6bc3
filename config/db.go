package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"folio-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
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
		return "", fmt.Errorf("mysql url missing database name")
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

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "folio_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase ensures the rows the billing flow depends on exist: the
// seller identity and the default unit types.
func SeedDatabase() {
	var settingsCount int64
	DB.Model(&models.CompanySetting{}).Count(&settingsCount)
	if settingsCount == 0 {
		settings := models.CompanySetting{
			LegalNameEN:         "Awi Almakan Est.",
			LegalNameAR:         "مؤسسة أوي المكان",
			EstablishmentNameEN: "Awi Almakan Furnished Units",
			EstablishmentNameAR: "أوي المكان للوحدات المفروشة",
			AddressEN:           "King Fahd Road, Riyadh",
			AddressAR:           "طريق الملك فهد، الرياض",
			VATNumber:           "310231928400003",
			CRNumber:            "1010000000",
			VATRate:             decimal.NewFromFloat(0.15),
		}
		if err := DB.Create(&settings).Error; err != nil {
			log.Printf("warning: failed to seed company settings: %v", err)
		} else {
			log.Println("Company settings seeded")
		}
	}

	var utCount int64
	DB.Model(&models.UnitType{}).Count(&utCount)
	if utCount == 0 {
		unitTypes := []models.UnitType{
			{TypeName: "Studio", Description: "Studio unit", MaxGuests: 2},
			{TypeName: "One Bedroom", Description: "One bedroom apartment", MaxGuests: 3},
			{TypeName: "Two Bedroom", Description: "Two bedroom apartment", MaxGuests: 5},
		}
		DB.Create(&unitTypes)
		log.Println("Unit types seeded")
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order.
	if err := DB.AutoMigrate(
		&models.CompanySetting{},
		&models.Property{},
		&models.UnitType{},
		&models.Unit{},
		&models.Guest{},
		&models.Reservation{},
		&models.Folio{},
		&models.FolioPosting{},
		&models.Invoice{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
