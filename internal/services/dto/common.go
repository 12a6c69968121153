package dto

import (
	"io"
)

// RuleChecker - DTO с межполевыми правилами. Нарушения объединяются
// с ошибками тегов validate в одну ValidationError
type RuleChecker interface {
	Rules() map[string]string
}

// PageResponse - страница списка
type PageResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

func NewPage[T any](items []T, total int64, page, pageSize int) *PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResponse[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
}

// FileUpload - файл из multipart формы
type FileUpload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

type AttachmentResponse struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

type FailedUpload struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// UploadReport - результат загрузки: ошибки отдельных файлов не прерывают запрос
type UploadReport struct {
	Uploaded []AttachmentResponse `json:"uploaded"`
	Failed   []FailedUpload       `json:"failed"`
}

type ModerationSummary struct {
	Status     string   `json:"status"`
	Score      int      `json:"score"`
	Verdict    string   `json:"verdict"`
	Categories []string `json:"categories"`
}
