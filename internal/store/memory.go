package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/AngelCh415/terrafedash/internal/models"
	"github.com/AngelCh415/terrafedash/internal/utils"
)

var ErrNotLoaded = errors.New("dataset not loaded")

// Loader produces a complete dataset or an error, never a partial one.
type Loader interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// DatasetStore caches the last good dataset. Datasets are never mutated after
// load, so readers may share the slices without copying.
type DatasetStore struct {
	mu     sync.RWMutex
	ds     *models.Dataset
	loadMu sync.Mutex // one load at a time
	loader Loader
	log    *slog.Logger
}

func NewDatasetStore(l Loader, log *slog.Logger) *DatasetStore {
	return &DatasetStore{loader: l, log: log}
}

// Current returns the cached dataset, loading it on first use or after
// Invalidate.
func (s *DatasetStore) Current(ctx context.Context) (*models.Dataset, error) {
	if ds := s.peek(); ds != nil {
		return ds, nil
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if ds := s.peek(); ds != nil {
		return ds, nil
	}
	return s.load(ctx)
}

// Reload replaces the cached dataset. On failure the previous dataset stays
// in place and the error is returned.
func (s *DatasetStore) Reload(ctx context.Context) (*models.Dataset, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.load(ctx)
}

// Invalidate drops the cached dataset; the next Current loads again.
func (s *DatasetStore) Invalidate() {
	s.mu.Lock()
	s.ds = nil
	s.mu.Unlock()
	utils.DatasetLoadedAt.Set(0)
	s.log.Info("dataset invalidated")
}

// LoadedAt reports when the served dataset was loaded.
func (s *DatasetStore) LoadedAt() (time.Time, error) {
	ds := s.peek()
	if ds == nil {
		return time.Time{}, ErrNotLoaded
	}
	return ds.LoadedAt, nil
}

// Peek returns the cached dataset without loading.
func (s *DatasetStore) Peek() (*models.Dataset, error) {
	ds := s.peek()
	if ds == nil {
		return nil, ErrNotLoaded
	}
	return ds, nil
}

func (s *DatasetStore) peek() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

func (s *DatasetStore) load(ctx context.Context) (*models.Dataset, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		if prev := s.peek(); prev != nil {
			s.log.Warn("reload failed, keeping previous dataset",
				slog.String("id", prev.ID),
				slog.String("err", err.Error()))
		}
		return nil, err
	}
	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()
	utils.DatasetLoadedAt.Set(float64(ds.LoadedAt.Unix()))
	return ds, nil
}
