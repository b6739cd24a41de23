package database

import (
	"fmt"
	"os"
	"strconv"

	"paygate/logger"
	"paygate/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, pass, name, port, sslmode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to database")
	}

	DB = db
	logger.Log.Info("connected to database")

	autoMigrateEnv := os.Getenv("DB_AUTO_MIGRATE")
	autoMigrate, err := strconv.ParseBool(autoMigrateEnv)
	if err != nil {
		logger.Log.WithField("value", autoMigrateEnv).Warn("invalid value for DB_AUTO_MIGRATE")
	}

	if autoMigrate {
		logger.Log.Info("starting auto-migration")

		if err := DB.AutoMigrate(
			&models.AdminUser{},
			&models.Merchant{},
			&models.FinancialDetail{},
			&models.ChargeBracket{},
			&models.PlatformCharge{},
			&models.LedgerEntry{},
		); err != nil {
			logger.Log.WithError(err).Fatal("failed to auto-migrate database")
		}

		logger.Log.Info("auto migration completed")
	}
}
