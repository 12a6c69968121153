package storage

import (
	"context"
	"sort"
	"sync"

	"freelance_backend/internal/logger"
	"freelance_backend/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// DeleteResult - итог пакетного удаления
type DeleteResult struct {
	Removed []string
	Failed  []string
}

// DeleteAll удаляет ключи параллельно (не более limit одновременно).
// Ошибки отдельных объектов не прерывают остальные
func DeleteAll(ctx context.Context, st Storage, keys []string, limit int) DeleteResult {
	if limit <= 0 {
		limit = 4
	}

	var (
		mu  sync.Mutex
		res = DeleteResult{Removed: []string{}, Failed: []string{}}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, key := range keys {
		key := key
		g.Go(func() error {
			err := st.Delete(gctx, key)
			logger.StorageLog("delete", key, err)
			metrics.IncrementStorageOperation("delete", err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed = append(res.Failed, key)
			} else {
				res.Removed = append(res.Removed, key)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(res.Removed)
	sort.Strings(res.Failed)
	return res
}

// DeletePrefix перечисляет и удаляет все объекты под префиксом
func DeletePrefix(ctx context.Context, st Storage, prefix string, limit int) (DeleteResult, error) {
	keys, err := st.List(ctx, prefix)
	if err != nil {
		return DeleteResult{Removed: []string{}, Failed: []string{}}, err
	}
	return DeleteAll(ctx, st, keys, limit), nil
}
