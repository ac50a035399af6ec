package service

import (
	"errors"

	"GlobetrotterService/pkg/apperrors"
)

const databaseErrorDetail = "Database error, please try again"

// wrapStorageError пропускает ошибки сервиса как есть, а сбои хранилища прячет за Internal
func wrapStorageError(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal(databaseErrorDetail, err)
}
