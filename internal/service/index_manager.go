package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AtsunoriNagaya/swim-traing-app/internal/domain"
	"github.com/AtsunoriNagaya/swim-traing-app/internal/repository"
	"github.com/AtsunoriNagaya/swim-traing-app/internal/storage"

	"go.uber.org/zap"
)

// IndexManager reads and writes the menu index document via the object
// store and publishes its location via the pointer store.
//
// The two paths have opposite error contracts: Load degrades every failure
// to an empty index and never returns one, while Persist propagates
// failures so a lost index write is never mistaken for success.
type IndexManager struct {
	pointers repository.PointerRepository
	store    storage.ObjectStorage
	logger   *zap.Logger
}

// NewIndexManager creates a new IndexManager.
func NewIndexManager(pointers repository.PointerRepository, store storage.ObjectStorage, logger *zap.Logger) *IndexManager {
	return &IndexManager{
		pointers: pointers,
		store:    store,
		logger:   logger,
	}
}

// Load returns the current index and its pointer version. A missing
// pointer, unreadable index object, or unparseable document all degrade to
// an empty index; the version is carried through so a subsequent Persist
// still detects concurrent writers.
func (m *IndexManager) Load(ctx context.Context) (*domain.MenuIndex, int64) {
	ptr, err := m.pointers.Get(ctx, repository.IndexPointerKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.logger.Warn("failed to read index pointer", zap.Error(err))
		}
		return domain.NewMenuIndex(), 0
	}

	data, err := m.store.Read(ctx, ptr.Value)
	if err != nil {
		m.logger.Warn("failed to fetch index document",
			zap.String("url", ptr.Value), zap.Error(err))
		return domain.NewMenuIndex(), ptr.Version
	}

	var index domain.MenuIndex
	if err := json.Unmarshal(data, &index); err != nil {
		m.logger.Warn("failed to parse index document",
			zap.String("url", ptr.Value), zap.Error(err))
		return domain.NewMenuIndex(), ptr.Version
	}
	if index.Menus == nil {
		index.Menus = []domain.IndexEntry{}
	}
	return &index, ptr.Version
}

// Persist writes the index snapshot to the object store under a
// version-suffixed key and compare-and-sets the pointer to the returned
// URL. repository.ErrConflict means another writer got there first; callers
// should reload, merge, and retry.
func (m *IndexManager) Persist(ctx context.Context, index *domain.MenuIndex, version int64) error {
	data, err := json.Marshal(index)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s.%d.json", storage.IndexKeyPrefix, version+1)
	url, err := m.store.Write(ctx, key, data)
	if err != nil {
		return err
	}

	return m.pointers.CompareAndSet(ctx, repository.IndexPointerKey, url, version)
}
