package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// containsClause matches column against a containsPattern. Postgres gets
// ILIKE; SQLite's LOWER only folds ASCII letters.
func containsClause(tx *gorm.DB, column string) string {
	if tx.Dialector.Name() == "postgres" {
		return column + ` ILIKE ? ESCAPE '\'`
	}
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}

// mustExist returns a ReferenceError when no row of dst's table has id.
func mustExist(tx *gorm.DB, dst any, id uuid.UUID, field string) error {
	var n int64
	if err := tx.Model(dst).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return &ReferenceError{Field: field, ID: id.String()}
	}
	return nil
}

func mustExistOptional(tx *gorm.DB, dst any, id *uuid.UUID, field string) error {
	if id == nil {
		return nil
	}
	return mustExist(tx, dst, *id, field)
}

func deleteByID(tx *gorm.DB, dst any, id uuid.UUID) error {
	result := tx.Delete(dst, "id = ?", id)
	if result.Error != nil {
		return classifyDelete(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
