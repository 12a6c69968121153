package apperrors

// ErrorCode - машинно-читаемый код ошибки, уходит клиенту в поле "error"
type ErrorCode string

const (
	// Валидация входных данных
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Аутентификация и авторизация
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Ресурсы и бизнес-логика
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeInvalidState ErrorCode = "INVALID_STATE"

	// Внешние зависимости (БД, хранилище, модерация)
	CodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	CodeTimeout         ErrorCode = "TIMEOUT"

	// Системные и неизвестные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)
