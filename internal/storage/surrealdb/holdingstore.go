package surrealdb

import (
	"context"
	"fmt"

	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

type HoldingStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewHoldingStore(db *surrealdb.DB, logger *common.Logger) *HoldingStore {
	return &HoldingStore{
		db:     db,
		logger: logger,
	}
}

func (s *HoldingStore) Get(ctx context.Context, id string) (*models.Holding, error) {
	holding, err := surrealdb.Select[models.Holding](ctx, s.db, surrealmodels.NewRecordID("holding", id))
	if err != nil {
		return nil, fmt.Errorf("failed to select holding: %w", err)
	}
	if holding == nil || holding.ID == "" {
		return nil, fmt.Errorf("holding %s: %w", id, models.ErrNotFound)
	}
	return holding, nil
}

func (s *HoldingStore) Save(ctx context.Context, holding *models.Holding) error {
	sql := "UPSERT type::record('holding', $id) CONTENT $holding"
	vars := map[string]any{"id": holding.ID, "holding": holding}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Holding](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save holding after retries: %w", lastErr)
}

func (s *HoldingStore) Delete(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[models.Holding](ctx, s.db, surrealmodels.NewRecordID("holding", id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

func (s *HoldingStore) ListByUser(ctx context.Context, userID string) ([]*models.Holding, error) {
	sql := "SELECT * FROM holding WHERE userId = $user_id ORDER BY updatedAt DESC"
	vars := map[string]any{"user_id": userID}
	return s.queryHoldings(ctx, sql, vars)
}

func (s *HoldingStore) ListByUsers(ctx context.Context, userIDs []string) ([]*models.Holding, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	sql := "SELECT * FROM holding WHERE userId IN $user_ids ORDER BY updatedAt DESC"
	vars := map[string]any{"user_ids": userIDs}
	return s.queryHoldings(ctx, sql, vars)
}

func (s *HoldingStore) queryHoldings(ctx context.Context, sql string, vars map[string]any) ([]*models.Holding, error) {
	results, err := surrealdb.Query[[]models.Holding](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Holding
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *HoldingStore) Close() error {
	return nil
}
