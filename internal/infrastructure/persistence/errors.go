package persistence

import (
	"errors"

	"github.com/haccp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

func translateNotFound(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFound(resource, id)
	}
	return err
}

func translateDuplicate(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.Conflict(format, args...)
	}
	return err
}

func optimisticLockFailed(resource string) error {
	return shared.NewDomainError(shared.CodeOptimisticLock, resource+" was modified by another transaction")
}
