package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"memoboard/api/internal/ads"
	"memoboard/api/internal/config"
	"memoboard/api/internal/moderation"
	"memoboard/api/internal/store"
)

// MemoLimit is the global cap on live memos. It is a board-wide cap, not a
// per-user one; the board has no user partitioning.
const MemoLimit = 7

type dataStore interface {
	ListMemos(ctx context.Context, limit int) ([]store.Memo, error)
	InsertMemoCapped(ctx context.Context, memo store.Memo, cap int) (bool, error)
	UpdateMemo(ctx context.Context, id, content string, updatedAt time.Time) (store.Memo, error)
	DeleteMemo(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}

type listCache interface {
	Get(ctx context.Context) ([]store.Memo, bool)
	Set(ctx context.Context, memos []store.Memo) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	cfg     config.Config
	store   dataStore
	cache   listCache // nil when Redis is not configured
	catalog *ads.Catalog
	now     func() time.Time
}

func New(cfg config.Config, dataStore dataStore, catalog *ads.Catalog) *Service {
	return &Service{
		cfg:     cfg,
		store:   dataStore,
		catalog: catalog,
		now:     time.Now,
	}
}

// NewWithCache is New with the Redis memo list cache attached.
func NewWithCache(cfg config.Config, dataStore dataStore, memoCache listCache, catalog *ads.Catalog) *Service {
	service := New(cfg, dataStore, catalog)
	service.cache = memoCache
	return service
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ListMemos returns at most MemoLimit memos, newest first, serving from
// the cache when one is attached and warm.
func (s *Service) ListMemos(ctx context.Context) ([]store.Memo, error) {
	if s.cache != nil {
		if memos, ok := s.cache.Get(ctx); ok {
			return memos, nil
		}
	}

	memos, err := s.store.ListMemos(ctx, MemoLimit)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	if memos == nil {
		memos = []store.Memo{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, memos); err != nil {
			log.Printf("cache: set memo list: %v", err)
		}
	}
	return memos, nil
}

// CreateMemo validates the content and inserts a new memo unless the board
// is at its cap.
func (s *Service) CreateMemo(ctx context.Context, content string) (store.Memo, error) {
	if result := moderation.Validate(content); !result.Valid {
		return store.Memo{}, validationError(result.Reason)
	}

	now := s.now().UTC()
	memo := store.Memo{
		ID:        store.NewMemoID(),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	inserted, err := s.store.InsertMemoCapped(ctx, memo, MemoLimit)
	if err != nil {
		return store.Memo{}, fmt.Errorf("create memo: %w", err)
	}
	if !inserted {
		return store.Memo{}, domainError(http.StatusBadRequest, "MEMO_LIMIT_REACHED", "Memo limit reached")
	}

	s.invalidateList(ctx)
	return memo, nil
}

// UpdateMemo validates the content and rewrites the memo in place; only
// content and updated_at change.
func (s *Service) UpdateMemo(ctx context.Context, id, content string) (store.Memo, error) {
	if result := moderation.Validate(content); !result.Valid {
		return store.Memo{}, validationError(result.Reason)
	}

	memo, err := s.store.UpdateMemo(ctx, id, content, s.now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return store.Memo{}, domainError(http.StatusNotFound, "NOT_FOUND", "Memo not found")
	}
	if err != nil {
		return store.Memo{}, fmt.Errorf("update memo: %w", err)
	}

	s.invalidateList(ctx)
	return memo, nil
}

// DeleteMemo removes the memo. No validation beyond existence; the delete
// gate lives on the client.
func (s *Service) DeleteMemo(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteMemo(ctx, id)
	if err != nil {
		return fmt.Errorf("delete memo: %w", err)
	}
	if !deleted {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Memo not found")
	}

	s.invalidateList(ctx)
	return nil
}

// Validate is the authoritative content check behind /api/validate.
func (s *Service) Validate(content string) moderation.Result {
	return moderation.Validate(content)
}

// AdCatalog returns the creative inventory for the client ad modal.
func (s *Service) AdCatalog(ctx context.Context) []ads.Creative {
	if s.catalog == nil {
		return []ads.Creative{}
	}
	return s.catalog.Creatives(ctx)
}

func (s *Service) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("cache: invalidate memo list: %v", err)
	}
}

func validationError(reason moderation.Reason) *DomainError {
	messages := map[moderation.Reason]string{
		moderation.ReasonInvalidContent:    "Content is required",
		moderation.ReasonContentTooLong:    "Content is too long",
		moderation.ReasonBannedWords:       "Content contains banned words",
		moderation.ReasonNumbersNotAllowed: "Content must not contain numbers",
	}
	message := messages[reason]
	if message == "" {
		message = "Content rejected"
	}
	return domainError(http.StatusBadRequest, string(reason), message)
}
