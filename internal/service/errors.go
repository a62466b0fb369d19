package service

import (
	"errors"

	"github.com/damoang/eventhub-backend/internal/common"
)

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
