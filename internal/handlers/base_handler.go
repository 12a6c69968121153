package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/middleware"
	"freelance_backend/internal/services/dto"
	"freelance_backend/internal/validator"
	"freelance_backend/pkg/apperrors"
	"freelance_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// SuccessResponse - конверт успешного ответа
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func (h *BaseHandler) Respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}

func (h *BaseHandler) RespondMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, SuccessResponse{Success: true, Data: data, Message: message})
}

// ============================================================================
// 2. DB и пользователь из контекста
// ============================================================================

// GetDB извлекает *gorm.DB (пул или транзакцию) из gin.Context
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

// GetActor возвращает аутентифицированного пользователя или пишет 401
func (h *BaseHandler) GetActor(c *gin.Context) (auth.Actor, bool) {
	actor := middleware.GetActor(c)
	if actor.ID == "" {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return auth.Actor{}, false
	}
	return actor, true
}

// ============================================================================
// 3. Привязка и валидация
// ============================================================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

// BindAndValidate_Multipart принимает JSON или multipart форму: JSON в поле "data"
// либо именованные поля формы, файлы в полях "files[]" и "images[]"
func (h *BaseHandler) BindAndValidate_Multipart(c *gin.Context, obj interface{}, maxMemory int64) ([]dto.FileUpload, bool) {
	ctx := c.Request.Context()

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, h.BindAndValidate_JSON(c, obj)
	}

	if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
		logger.CtxWithError(ctx, "Failed to parse multipart form", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form"))
		return nil, false
	}
	form := c.Request.MultipartForm

	if values := form.Value["data"]; len(values) > 0 && values[0] != "" {
		if err := json.Unmarshal([]byte(values[0]), obj); err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid data field: "+err.Error()))
			return nil, false
		}
	} else {
		body, err := formToJSON(form.Value, obj)
		if err != nil {
			logger.CtxWithError(ctx, "Failed to bind form fields", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid form field "+err.Error()))
			return nil, false
		}
		if err := json.Unmarshal(body, obj); err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid form fields: "+err.Error()))
			return nil, false
		}
	}
	if !h.validate(c, obj) {
		return nil, false
	}

	var files []dto.FileUpload
	for _, field := range []string{"files", "files[]", "images", "images[]"} {
		for _, fh := range form.File[field] {
			files = append(files, fileUpload(fh))
		}
	}
	return files, true
}

// validate - теги validate плюс межполевые правила DTO одной ошибкой
func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()
	errs := map[string]string{}

	if err := h.validator.Validate(obj); err != nil {
		vErr, ok := err.(*validator.ValidationError)
		if !ok {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
			return false
		}
		for k, v := range vErr.Errors {
			errs[k] = v
		}
	}
	if rc, ok := obj.(dto.RuleChecker); ok {
		for k, v := range rc.Rules() {
			if _, exists := errs[k]; !exists {
				errs[k] = v
			}
		}
	}

	if len(errs) > 0 {
		logger.CtxWarn(ctx, "Validation failed", "errors", errs, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.ValidationError(errs))
		return false
	}
	return true
}

func fileUpload(fh *multipart.FileHeader) dto.FileUpload {
	return dto.FileUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// ============================================================================
// 4. Обработчик ошибок сервисов
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.CtxWithError(ctx, "Service failure", err, "path", c.Request.URL.Path)
		} else {
			logger.CtxWarn(ctx, "Service error",
				"error", appErr.Message,
				"details", appErr.Details,
				"path", c.Request.URL.Path,
			)
		}
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

// ============================================================================
// 5. Функции парсинга
// ============================================================================

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func ParsePagination(c *gin.Context) (page int, pageSize int) {
	const defaultPage = 1
	const defaultPageSize = 20
	const maxPageSize = 100

	page = ParseQueryInt(c, "page", defaultPage)
	if page <= 0 {
		page = defaultPage
	}

	pageSize = ParseQueryInt(c, "page_size", defaultPageSize)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize
}
