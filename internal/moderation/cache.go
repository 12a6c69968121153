package moderation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"freelance_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// CachedModerator кэширует результаты в Redis. Ошибки кэша не ломают проверку
type CachedModerator struct {
	next Moderator
	rdb  redis.Cmdable
	ttl  time.Duration
}

func NewCachedModerator(next Moderator, rdb redis.Cmdable, ttl time.Duration) *CachedModerator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedModerator{next: next, rdb: rdb, ttl: ttl}
}

// CacheKey - SHA-256 от текста и опций
func CacheKey(text string, opts Options) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(opts.Strict)))
	h.Write([]byte(strconv.FormatBool(opts.Mask)))
	h.Write([]byte(strconv.FormatBool(opts.ReturnStats)))
	return "moderation:" + hex.EncodeToString(h.Sum(nil))
}

func (m *CachedModerator) Moderate(ctx context.Context, text string, opts Options) (*Result, error) {
	key := CacheKey(text, opts)

	raw, err := m.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached Result
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return &cached, nil
		}
	case !errors.Is(err, redis.Nil):
		logger.CtxWarn(ctx, "moderation cache read failed", "error", err.Error())
	}

	res, err := m.next.Moderate(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	if res.Verdict == VerdictUnverified {
		return res, nil
	}

	if payload, jsonErr := json.Marshal(res); jsonErr == nil {
		if setErr := m.rdb.Set(ctx, key, payload, m.ttl).Err(); setErr != nil {
			logger.CtxWarn(ctx, "moderation cache write failed", "error", setErr.Error())
		}
	}
	return res, nil
}
