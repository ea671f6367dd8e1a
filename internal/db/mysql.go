package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"uniapply/internal/model"
)

// NewMySQL returns a connected GORM DB instance. Driver errors are translated,
// so unique-key violations surface as gorm.ErrDuplicatedKey.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Models lists every table in dependency order (parents first).
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Profile{},
		&model.University{},
		&model.Faculty{},
		&model.Division{},
		&model.Gallery{},
		&model.Application{},
	}
}

// Migrate creates or updates the schema. With reset set, all tables are dropped first.
func Migrate(db *gorm.DB, reset bool, log *zap.Logger) error {
	if reset {
		log.Warn("db.reset is set, dropping all tables")
		models := Models()
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				log.Warn("drop table failed (may not exist)", zap.Error(err))
			}
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
