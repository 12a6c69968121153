package helpers

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"freelance_backend/database"
	"freelance_backend/internal/auth"
	"freelance_backend/internal/models"
	"freelance_backend/internal/services/dto"
	"freelance_backend/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB открывает изолированную in-memory SQLite и мигрирует схему.
// Одно соединение: транзакции сериализуются так же, как блокировка строки в Postgres
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Не удалось получить *sql.DB из GORM: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewTestStorage - локальное хранилище во временной директории
func NewTestStorage(t *testing.T) *storage.LocalStorage {
	t.Helper()
	st, err := storage.NewLocalStorage(storage.Config{
		Type:     "local",
		BasePath: t.TempDir(),
		BaseURL:  "/uploads",
	})
	if err != nil {
		t.Fatalf("Не удалось создать хранилище: %v", err)
	}
	return st
}

func NewActor(role models.UserRole) auth.Actor {
	return auth.Actor{ID: uuid.NewString(), Role: role}
}

// Минимальные сигнатуры, по которым mimetype определяет тип
var (
	PNGBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)
	PDFBytes = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

// NewFileUpload оборачивает байты в dto.FileUpload
func NewFileUpload(name string, content []byte) dto.FileUpload {
	return dto.FileUpload{
		Filename: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}
