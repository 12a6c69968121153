package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrDuplicate       = errors.New("duplicate record")
)

const pgUniqueViolation = "23505"

// IsUniqueViolation распознает нарушение уникального индекса в Postgres и SQLite
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicate) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Pagination - смещение по номеру страницы
func offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
