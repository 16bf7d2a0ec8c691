// Package bookmarks syncs per-user bookmarks to a Supabase table. Unlike
// the rest of the application state this data is server-durable; every
// call here is a network round trip.
package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// ItemType tags what a bookmark points at.
type ItemType string

// Bookmarkable item types.
const (
	ItemChapter ItemType = "chapter"
	ItemFormula ItemType = "formula"
)

const table = "bookmarks"

// Bookmark is one row of the bookmarks table.
type Bookmark struct {
	UserID   string `json:"user_id"`
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
}

// Service reads and toggles bookmarks through the Supabase REST API.
type Service struct {
	client *supabase.Client
	logger *zap.Logger
}

// New creates a bookmark service against the given Supabase project.
func New(url, serviceKey string, logger *zap.Logger) (*Service, error) {
	if url == "" || serviceKey == "" {
		return nil, fmt.Errorf("bookmarks: supabase url and key are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := supabase.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &Service{client: client, logger: logger}, nil
}

// execute runs a query on its own goroutine so the caller can give up
// when ctx expires. The underlying REST client has no context plumbing;
// an abandoned call finishes in the background and its result is dropped.
func execute(ctx context.Context, query func() ([]byte, error)) ([]byte, error) {
	type result struct {
		raw []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := query()
		done <- result{raw: raw, err: err}
	}()
	select {
	case res := <-done:
		return res.raw, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// List returns the item ids the user has bookmarked.
func (s *Service) List(ctx context.Context, userID string) ([]string, error) {
	raw, err := execute(ctx, func() ([]byte, error) {
		raw, _, err := s.client.From(table).
			Select("item_id", "", false).
			Eq("user_id", userID).
			Execute()
		return raw, err
	})
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	var rows []struct {
		ItemID string `json:"item_id"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode bookmarks: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ItemID)
	}
	return ids, nil
}

// Toggle adds the bookmark if absent, removes it if present, and reports
// whether the item is bookmarked afterwards.
func (s *Service) Toggle(ctx context.Context, userID, itemID string, itemType ItemType) (bool, error) {
	raw, err := execute(ctx, func() ([]byte, error) {
		raw, _, err := s.client.From(table).
			Select("item_id", "", false).
			Eq("user_id", userID).
			Eq("item_id", itemID).
			Execute()
		return raw, err
	})
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	var existing []Bookmark
	if err := json.Unmarshal(raw, &existing); err != nil {
		return false, fmt.Errorf("decode bookmark: %w", err)
	}

	if len(existing) > 0 {
		_, err := execute(ctx, func() ([]byte, error) {
			raw, _, err := s.client.From(table).
				Delete("", "").
				Eq("user_id", userID).
				Eq("item_id", itemID).
				Execute()
			return raw, err
		})
		if err != nil {
			return false, fmt.Errorf("remove bookmark: %w", err)
		}
		s.logger.Debug("bookmark removed",
			zap.String("user_id", userID), zap.String("item_id", itemID))
		return false, nil
	}

	_, err = execute(ctx, func() ([]byte, error) {
		raw, _, err := s.client.From(table).
			Insert(Bookmark{UserID: userID, ItemID: itemID, ItemType: string(itemType)}, false, "", "", "").
			Execute()
		return raw, err
	})
	if err != nil {
		return false, fmt.Errorf("add bookmark: %w", err)
	}
	s.logger.Debug("bookmark added",
		zap.String("user_id", userID), zap.String("item_id", itemID))
	return true, nil
}
