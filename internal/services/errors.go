package services

import (
	"context"
	"errors"

	"freelance_backend/internal/repositories"
	"freelance_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// handleRepoError переводит ошибки репозиториев в AppError
func handleRepoError(err error, domain string) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, repositories.ErrProjectNotFound):
		return apperrors.ErrProjectNotFound
	case errors.Is(err, repositories.ErrBidNotFound):
		return apperrors.ErrBidNotFound
	case errors.Is(err, repositories.ErrReviewNotFound):
		return apperrors.ErrReviewNotFound
	case errors.Is(err, repositories.ErrMessageNotFound):
		return apperrors.ErrMessageNotFound
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NewNotFoundError(domain, "Record not found")
	case repositories.IsUniqueViolation(err):
		return apperrors.NewConflictError(domain, "Record already exists").WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(err, domain)
	case errors.Is(err, context.Canceled):
		return apperrors.Timeout(err, domain)
	}
	return apperrors.InternalError(err)
}
