package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/AtsunoriNagaya/swim-traing-app/internal/config"
	"github.com/AtsunoriNagaya/swim-traing-app/internal/domain"
	"github.com/AtsunoriNagaya/swim-traing-app/internal/repository"
	"github.com/AtsunoriNagaya/swim-traing-app/internal/storage"

	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrMenuNotFound = errors.New("menu not found")
	ErrEmptyMenuID  = errors.New("menu id is required")
)

// Attempts Save makes at committing the index before giving up on a
// version conflict.
const saveAttempts = 3

// MenuService persists generated menus and answers lookups over them.
//
// Read methods never surface store failures: GetByID returns only
// ErrMenuNotFound and ListHistory degrades to an empty slice. Save
// propagates failures, since a lost index write must not look like success.
type MenuService interface {
	Save(ctx context.Context, id string, doc *domain.MenuDocument) (string, error)
	GetByID(ctx context.Context, id string) (*domain.MenuDocument, error)
	ListHistory(ctx context.Context) []domain.MenuHistoryEntry
}

// menuService implements the MenuService interface.
type menuService struct {
	index        *IndexManager
	store        storage.ObjectStorage
	looseIDMatch bool
	logger       *zap.Logger
	now          func() time.Time
}

// NewMenuService creates a new instance of menuService.
func NewMenuService(index *IndexManager, store storage.ObjectStorage, cfg config.MenuConfig, logger *zap.Logger) MenuService {
	return &menuService{
		index:        index,
		store:        store,
		looseIDMatch: cfg.LooseIDMatch,
		logger:       logger,
		now:          time.Now,
	}
}

// Save writes the document to the object store, appends its entry to the
// index, and republishes the index. The URL returned by the store is
// authoritative and is what the index records. There is no rollback: if the
// index write fails after the document write succeeded, the document stays
// in storage as an unreachable orphan.
func (s *menuService) Save(ctx context.Context, id string, doc *domain.MenuDocument) (string, error) {
	if id == "" {
		return "", ErrEmptyMenuID
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	url, err := s.store.Write(ctx, storage.MenuObjectKey(id), data)
	if err != nil {
		return "", err
	}

	// Optimistic append: on a version conflict another producer committed
	// between our load and persist, so reload the merged index and re-append.
	for attempt := 1; ; attempt++ {
		index, version := s.index.Load(ctx)
		index.Append(domain.IndexEntry{
			ID:          id,
			Metadata:    domain.BuildMetadata(doc, s.now()),
			MenuDataURL: url,
		})

		err = s.index.Persist(ctx, index, version)
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, repository.ErrConflict) || attempt == saveAttempts {
			return "", err
		}
		s.logger.Info("index version conflict, retrying save",
			zap.String("id", id), zap.Int("attempt", attempt))
	}
}

// GetByID loads the index and fetches the first matching menu. Exact id
// matches always win; only when none exists (and loose matching is
// enabled) does the bidirectional substring fallback run, which tolerates
// ids that gained or lost a prefix across format migrations.
func (s *menuService) GetByID(ctx context.Context, id string) (*domain.MenuDocument, error) {
	if id == "" {
		return nil, ErrMenuNotFound
	}

	index, _ := s.index.Load(ctx)
	if len(index.Menus) == 0 {
		return nil, ErrMenuNotFound
	}

	entry := findEntry(index.Menus, id, s.looseIDMatch)
	if entry == nil || entry.MenuDataURL == "" {
		return nil, ErrMenuNotFound
	}

	data, err := s.store.Read(ctx, entry.MenuDataURL)
	if err != nil {
		s.logger.Debug("failed to fetch menu document",
			zap.String("id", id), zap.String("url", entry.MenuDataURL), zap.Error(err))
		return nil, ErrMenuNotFound
	}

	var doc domain.MenuDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Debug("failed to parse menu document",
			zap.String("id", id), zap.Error(err))
		return nil, ErrMenuNotFound
	}
	return &doc, nil
}

// findEntry returns the first entry matching id, in index order.
func findEntry(entries []domain.IndexEntry, id string, loose bool) *domain.IndexEntry {
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i]
		}
	}
	if !loose {
		return nil
	}
	for i := range entries {
		if strings.Contains(entries[i].ID, id) || strings.Contains(id, entries[i].ID) {
			return &entries[i]
		}
	}
	return nil
}

// ListHistory returns one row per indexed menu, newest first. Any failure
// along the way degrades to an empty listing.
func (s *menuService) ListHistory(ctx context.Context) []domain.MenuHistoryEntry {
	index, _ := s.index.Load(ctx)

	history := make([]domain.MenuHistoryEntry, 0, len(index.Menus))
	for _, entry := range index.Menus {
		history = append(history, entry.Metadata.History(entry.ID))
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})
	return history
}
