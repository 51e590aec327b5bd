package mysql

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds SELECT ... FOR UPDATE. The sqlite dialect drops the clause; there the
// unit of work's writer lock and sqlite's own database lock serialize writers.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
