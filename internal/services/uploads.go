package services

import (
	"bytes"
	"context"
	"errors"
	"io"

	"freelance_backend/internal/logger"
	"freelance_backend/internal/metrics"
	"freelance_backend/internal/models"
	"freelance_backend/internal/services/dto"
	"freelance_backend/internal/storage"
	"freelance_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

// sniffLen - сколько байт читаем для определения MIME
const sniffLen = 3072

var errTooManyFiles = apperrors.NewBadRequestError("Too many files in one request")

type UploadPolicy struct {
	MaxSize      int64
	MaxFiles     int
	AllowedTypes []string
	Concurrency  int
}

// Uploader сохраняет файлы в объектное хранилище параллельно.
// Ошибка одного файла попадает в отчет и не прерывает остальные
type Uploader struct {
	storage storage.Storage
	policy  UploadPolicy
}

func NewUploader(st storage.Storage, policy UploadPolicy) *Uploader {
	if policy.Concurrency <= 0 {
		policy.Concurrency = 4
	}
	return &Uploader{storage: st, policy: policy}
}

func (u *Uploader) Storage() storage.Storage {
	return u.storage
}

// UploadAll возвращает успешно сохраненные файлы в исходном порядке и список отказов
func (u *Uploader) UploadAll(ctx context.Context, prefix string, files []dto.FileUpload) ([]models.ProjectAttachment, []dto.FailedUpload) {
	type outcome struct {
		att models.ProjectAttachment
		err error
	}
	results := make([]outcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.policy.Concurrency)

	for i, f := range files {
		i, f := i, f
		if u.policy.MaxFiles > 0 && i >= u.policy.MaxFiles {
			results[i].err = errTooManyFiles
			continue
		}
		g.Go(func() error {
			att, err := u.UploadOne(gctx, prefix, f)
			results[i] = outcome{att: att, err: err}
			return nil
		})
	}
	_ = g.Wait()

	uploaded := []models.ProjectAttachment{}
	failed := []dto.FailedUpload{}
	for i, r := range results {
		if r.err != nil {
			failed = append(failed, dto.FailedUpload{Name: files[i].Filename, Reason: uploadReason(r.err)})
			continue
		}
		uploaded = append(uploaded, r.att)
	}
	return uploaded, failed
}

// UploadOne проверяет размер и тип по содержимому и сохраняет файл под prefix
func (u *Uploader) UploadOne(ctx context.Context, prefix string, f dto.FileUpload) (models.ProjectAttachment, error) {
	if u.policy.MaxSize > 0 && f.Size > u.policy.MaxSize {
		return models.ProjectAttachment{}, apperrors.ErrFileTooLarge
	}

	rc, err := f.Open()
	if err != nil {
		return models.ProjectAttachment{}, apperrors.NewBadRequestError("Cannot read uploaded file").WithError(err)
	}
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return models.ProjectAttachment{}, apperrors.NewBadRequestError("Cannot read uploaded file").WithError(err)
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !u.allowed(mt) {
		return models.ProjectAttachment{}, apperrors.ErrUnsupportedFileType.WithDetails(map[string]string{
			"file": f.Filename,
			"type": mt.String(),
		})
	}

	key := storage.NewObjectKey(prefix, f.Filename)
	body := io.MultiReader(bytes.NewReader(head), rc)
	if u.policy.MaxSize > 0 {
		body = io.LimitReader(body, u.policy.MaxSize)
	}

	err = u.storage.Save(ctx, key, body, mt.String())
	logger.StorageLog("save", key, err)
	metrics.IncrementStorageOperation("save", err)
	if err != nil {
		return models.ProjectAttachment{}, apperrors.UpstreamFailure(err, "storage")
	}

	return models.ProjectAttachment{
		Key:      key,
		URL:      u.storage.URL(key),
		Name:     f.Filename,
		MimeType: mt.String(),
		Size:     f.Size,
	}, nil
}

// Remove удаляет ключи best-effort
func (u *Uploader) Remove(ctx context.Context, keys []string) storage.DeleteResult {
	return storage.DeleteAll(ctx, u.storage, keys, u.policy.Concurrency)
}

func (u *Uploader) allowed(mt *mimetype.MIME) bool {
	if len(u.policy.AllowedTypes) == 0 {
		return true
	}
	for _, t := range u.policy.AllowedTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

func uploadReason(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func attachmentKeys(atts []models.ProjectAttachment) []string {
	keys := make([]string, 0, len(atts))
	for _, a := range atts {
		keys = append(keys, a.Key)
	}
	return keys
}

func toAttachmentResponses(atts []models.ProjectAttachment) []dto.AttachmentResponse {
	out := make([]dto.AttachmentResponse, 0, len(atts))
	for _, a := range atts {
		out = append(out, dto.AttachmentResponse{Key: a.Key, URL: a.URL, Name: a.Name, MimeType: a.MimeType, Size: a.Size})
	}
	return out
}

func isImage(mime string) bool {
	return len(mime) > 6 && mime[:6] == "image/"
}
