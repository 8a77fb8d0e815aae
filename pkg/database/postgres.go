package database

import (
	"log"

	"github.com/driveloop/carrental-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Car{}, &models.Booking{}, &models.Purchase{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Overlap checks filter on (car_id, status); keep that path indexed.
	db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_car_blocking
		ON bookings (car_id, start_date, end_date)
		WHERE status = 'Confirmed'
	`)

	// Confirmed ranges on one car must never intersect. The service
	// checks before confirming; this constraint holds under races too.
	db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist")
	var hasConstraint int64
	db.Raw("SELECT COUNT(*) FROM pg_constraint WHERE conname = 'bookings_no_confirmed_overlap'").
		Scan(&hasConstraint)
	if hasConstraint == 0 {
		db.Exec(`
			ALTER TABLE bookings ADD CONSTRAINT bookings_no_confirmed_overlap
			EXCLUDE USING gist (car_id WITH =, tstzrange(start_date, end_date) WITH &&)
			WHERE (status = 'Confirmed')
		`)
	}

	return db
}
