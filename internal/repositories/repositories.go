package repositories

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Account is a stored backend account. The hash never leaves the package.
type Account struct {
	ID           int64
	Name         string
	Email        string
	passwordHash string
}

// normalizeEmail lowercases and trims email so lookups ignore case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
