package db

import (
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/migrator"
	"gorm.io/gorm/schema"
)

// SQLite returns a sqlite dialector that keeps decimal columns exact.
// A DECIMAL type name gets NUMERIC affinity in sqlite, which rounds values
// past 15 significant digits; TEXT affinity stores decimal.Decimal's string
// form verbatim.
func SQLite(dsn string) gorm.Dialector {
	return exactDecimals{Dialector: &sqlite.Dialector{DSN: dsn}}
}

type exactDecimals struct {
	*sqlite.Dialector
}

func (d exactDecimals) DataTypeOf(field *schema.Field) string {
	if strings.HasPrefix(strings.ToLower(string(field.DataType)), "decimal") {
		return "text"
	}
	return d.Dialector.DataTypeOf(field)
}

func (d exactDecimals) Migrator(db *gorm.DB) gorm.Migrator {
	return sqlite.Migrator{Migrator: migrator.Migrator{Config: migrator.Config{
		DB:                          db,
		Dialector:                   d,
		CreateIndexAfterCreateTable: true,
	}}}
}
