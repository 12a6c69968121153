package moderation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteClient_RecomputesVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req remoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "some description", req.Text)
		assert.True(t, req.Options.Strict)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"score":      20,
				"verdict":    "clean",
				"violations": []map[string]any{{"word": "x", "category": "spam", "severity": "low"}},
			},
		})
	}))
	defer srv.Close()

	client := NewRemoteClient(srv.URL, "secret", time.Second)
	res, err := client.Moderate(context.Background(), "some description", Options{Strict: true})

	require.NoError(t, err)
	assert.Equal(t, 20, res.Score)
	assert.Equal(t, VerdictFlag, res.Verdict)
	assert.False(t, res.IsClean)
	assert.Equal(t, "remote", res.Backend)
}

func TestRemoteClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewRemoteClient(srv.URL, "", time.Second).Moderate(context.Background(), "text", Options{})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestRemoteClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewRemoteClient(srv.URL, "", 50*time.Millisecond).Moderate(context.Background(), "text", Options{})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("hello", Options{Strict: true})
	b := CacheKey("hello", Options{Strict: true})
	c := CacheKey("hello", Options{})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "moderation:")
}

func TestCachedModerator_RedisDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	m := NewCachedModerator(NewEngine(), rdb, time.Minute)
	res, err := m.Moderate(context.Background(), "casino", Options{})

	require.NoError(t, err)
	assert.Equal(t, 25, res.Score)
	assert.Equal(t, "local", res.Backend)
}
