package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorCode   `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// debugErrors включается в development окружении (см. app.Run)
var debugErrors = false

// SetDebug управляет выдачей деталей внутренних ошибок клиенту
func SetDebug(debug bool) {
	debugErrors = debug
}

// HandleGinError - основная логика обработки ошибок для Gin
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	details := appErr.Details
	if appErr.HTTPCode >= 500 {
		slog.ErrorContext(c.Request.Context(), "server error",
			"code", appErr.Code,
			"domain", appErr.Domain,
			"error", appErr.Unwrap(),
		)
		// Внутренние детали наружу не отдаем
		if !h.Debug {
			details = nil
		} else if appErr.Err != nil && details == nil {
			details = appErr.Err.Error()
		}
	}

	lang := MatchLanguage(c.GetHeader("Accept-Language"))
	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{
		Success: false,
		Error:   appErr.Code,
		Message: Localize(lang, appErr.Message),
		Details: details,
	})
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: debugErrors}
	handler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
