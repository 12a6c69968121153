package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 - минимальный S3 в path-style: PutObject, HeadObject, DeleteObject и ListObjectsV2 с пагинацией
type fakeS3 struct {
	mu        sync.Mutex
	bucket    string
	pageSize  int
	objects   map[string][]byte
	listCalls int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/"+f.bucket), "/")

	switch {
	case r.Method == http.MethodGet && key == "" && r.URL.Query().Get("list-type") == "2":
		f.listCalls++
		f.list(w, r)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func (f *fakeS3) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prefix := q.Get("prefix")

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if token := q.Get("continuation-token"); token != "" {
		start, _ = strconv.Atoi(token)
	}
	end := start + f.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
	fmt.Fprintf(&b, "<Name>%s</Name><Prefix>%s</Prefix><KeyCount>%d</KeyCount><MaxKeys>%d</MaxKeys>",
		f.bucket, prefix, end-start, f.pageSize)
	if end < len(keys) {
		fmt.Fprintf(&b, "<IsTruncated>true</IsTruncated><NextContinuationToken>%d</NextContinuationToken>", end)
	} else {
		b.WriteString("<IsTruncated>false</IsTruncated>")
	}
	for _, k := range keys[start:end] {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size></Contents>", k, len(f.objects[k]))
	}
	b.WriteString("</ListBucketResult>")

	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(b.String()))
}

func newTestS3(t *testing.T) (*S3Storage, *fakeS3, string) {
	t.Helper()
	fake := &fakeS3{bucket: "freelance", pageSize: 2, objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	st, err := NewS3Storage(Config{
		Bucket:    "freelance",
		Region:    "us-east-1",
		AccessKey: "test",
		SecretKey: "test",
		Endpoint:  srv.URL,
	})
	require.NoError(t, err)
	return st, fake, srv.URL
}

func TestS3Storage_ListFollowsContinuationTokens(t *testing.T) {
	ctx := context.Background()
	st, fake, _ := newTestS3(t)

	for _, k := range []string{"projects/p1/a.png", "projects/p1/b.png", "projects/p1/c.pdf", "projects/p1/d.png", "projects/p1/e.png", "projects/p2/x.png"} {
		fake.objects[k] = []byte(k)
	}

	keys, err := st.List(ctx, ProjectPrefix("p1"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"projects/p1/a.png", "projects/p1/b.png", "projects/p1/c.pdf", "projects/p1/d.png", "projects/p1/e.png",
	}, keys)
	assert.Equal(t, 3, fake.listCalls)

	empty, err := st.List(ctx, ProjectPrefix("missing"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestS3Storage_SaveExistsDelete(t *testing.T) {
	ctx := context.Background()
	st, fake, _ := newTestS3(t)

	require.NoError(t, st.Save(ctx, "chat/r1/voice.ogg", strings.NewReader("ogg"), "audio/ogg"))
	assert.Equal(t, []byte("ogg"), fake.objects["chat/r1/voice.ogg"])

	ok, err := st.Exists(ctx, "chat/r1/voice.ogg")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, st.Delete(ctx, "chat/r1/voice.ogg"))
	assert.NotContains(t, fake.objects, "chat/r1/voice.ogg")

	ok, err = st.Exists(ctx, "chat/r1/voice.ogg")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3Storage_DeletePrefixAcrossPages(t *testing.T) {
	ctx := context.Background()
	st, fake, _ := newTestS3(t)

	for i := 0; i < 5; i++ {
		fake.objects[fmt.Sprintf("projects/p1/%d.png", i)] = []byte("x")
	}
	fake.objects["projects/p2/keep.png"] = []byte("x")

	res, err := DeletePrefix(ctx, st, ProjectPrefix("p1"), 2)
	require.NoError(t, err)
	assert.Len(t, res.Removed, 5)
	assert.Empty(t, res.Failed)
	assert.Equal(t, map[string][]byte{"projects/p2/keep.png": []byte("x")}, fake.objects)
}

func TestS3Storage_URLAndKeyFromURL(t *testing.T) {
	st, _, endpoint := newTestS3(t)

	url := st.URL("projects/p1/a.png")
	assert.Equal(t, endpoint+"/freelance/projects/p1/a.png", url)

	key, ok := st.KeyFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, "projects/p1/a.png", key)

	_, ok = st.KeyFromURL("https://cdn.example.com/projects/p1/a.png")
	assert.False(t, ok)
	_, ok = st.KeyFromURL(endpoint + "/freelance/")
	assert.False(t, ok)
}
