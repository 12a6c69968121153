package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freelance_backend/internal/app"
	"freelance_backend/internal/auth"
	"freelance_backend/internal/config"
	"freelance_backend/internal/notify"
	"freelance_backend/internal/storage"

	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-for-integration"

// TestServer - полное приложение поверх in-memory SQLite и локального хранилища
type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	Storage  *storage.LocalStorage
	Recorder *notify.Recorder
	App      *app.Server
}

// NewTestServer создает и настраивает тестовый сервер и БД. Закрывается через t.Cleanup
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Server.RequestTimeout = 0
	cfg.Auth.JWTSecret = testJWTSecret

	db := NewTestDB(t)
	st := NewTestStorage(t)
	recorder := &notify.Recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	srv := app.SetupRouter(ctx, cfg, db, app.Dependencies{
		Storage:  st,
		Notifier: recorder,
	})

	server := httptest.NewServer(srv.Router)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Storage:  st,
		Recorder: recorder,
		App:      srv,
	}
}

// Token выпускает JWT для актора
func (ts *TestServer) Token(t *testing.T, actor auth.Actor) string {
	t.Helper()
	token, err := ts.App.Tokens.IssueToken(actor.ID, actor.Role, time.Hour)
	if err != nil {
		t.Fatalf("Не удалось выпустить токен: %v", err)
	}
	return token
}

// SendRequest отправляет JSON запрос и возвращает ответ и тело
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req, token)
}

// SendMultipart отправляет multipart форму: JSON в поле data и файлы
func (ts *TestServer) SendMultipart(t *testing.T, method, path, token string, data interface{}, field string, files map[string][]byte) (*http.Response, string) {
	t.Helper()

	fields := map[string]string{}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		fields["data"] = string(raw)
	}
	return ts.SendForm(t, method, path, token, fields, field, files)
}

// SendForm отправляет multipart форму с именованными полями и файлами в поле field
func (ts *TestServer) SendForm(t *testing.T, method, path, token string, fields map[string]string, field string, files map[string][]byte) (*http.Response, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("Ошибка записи формы: %v", err)
		}
	}
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("Ошибка записи формы: %v", err)
		}
		part.Write(content)
	}
	w.Close()

	req, err := http.NewRequest(method, ts.Server.URL+path, buf)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return ts.do(t, req, token)
}

func (ts *TestServer) do(t *testing.T, req *http.Request, token string) (*http.Response, string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	return res, string(resBodyBytes)
}

// DecodeData разбирает поле data успешного ответа
func DecodeData(t *testing.T, body string, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		t.Fatalf("Ошибка разбора ответа: %v\n%s", err, body)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("Ошибка разбора data: %v\n%s", err, body)
	}
}
