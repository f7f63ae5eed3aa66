package migration

import (
	"github.com/revlinelabs/revline/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(cfg config.Config, db *gorm.DB) error {
		if err := CheckDriver(cfg.Database.Driver); err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
