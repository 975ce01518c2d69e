// Package gormstore is a pluggable persistent implementation of the Rooms
// and Players repository contracts, backed by gorm and postgres (grounded
// on the db.go/repository.go pattern in juan10024-tictactoe-test and
// mmausa2000-ubible). Gameplay itself never requires this package — spec
// §1 places the physical store out of scope and §1's non-goals exclude
// restart persistence — but a deployment that wants room/player history to
// survive a restart plugs this in instead of memstore for those two
// repositories.
package gormstore

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres at dsn and runs the package's auto-migrations.
// Mirrors the teacher pack's InitDB pattern (mmausa2000-ubible/database/db.go):
// a single *gorm.DB, connection-pool tuning, then migrate.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore: connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gormstore: get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&RoomRow{}, &PlayerRow{}); err != nil {
		return nil, fmt.Errorf("gormstore: migrate: %w", err)
	}

	return db, nil
}
