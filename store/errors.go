// Package store wraps all relational access behind accessors returning
// typed sentinel errors, so the action layer can map outcomes onto the
// response envelope without inspecting driver errors.
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a keyed lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write collides on a unique field,
	// whether caught by the pre-check or by the store constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// translateError collapses gorm and MySQL constraint errors into the
// package sentinels. Unknown errors pass through for the caller to log.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	msg := err.Error()
	if strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "Error 1062") {
		return ErrDuplicate
	}
	return err
}
