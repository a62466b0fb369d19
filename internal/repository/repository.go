package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/damoang/eventhub-backend/internal/common"
	"gorm.io/gorm"
)

// wrapNotFound converts gorm's not-found into the common sentinel
func wrapNotFound(err error, what string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, common.ErrNotFound)
	}
	return err
}

// likePattern wraps term for a substring LIKE match
func likePattern(term string) string {
	return "%" + strings.TrimSpace(term) + "%"
}
