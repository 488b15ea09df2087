package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/pkg/apperrors"
	"github.com/yusuf/schoolregistry/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. Transport status
// codes are decided here, in one place, so controllers only propagate
// domain errors.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		respondError(c, 404, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Student not found"))
	case errors.Is(err, apperrors.ErrCourseNotFound):
		respondError(c, 404, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Course not found"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, 404, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respondError(c, 409, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists"))
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respondError(c, 409, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, 403, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"))
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, 400, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()))
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		respondError(c, 500, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"))
	}
}

func respondError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	})
}
