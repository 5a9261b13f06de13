// Package holding implements the holding ledger.
package holding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/interfaces"
	"github.com/bobmcallan/investsync/internal/models"
)

// Service implements interfaces.HoldingService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// List returns the holdings visible under the scope. Room scope requires the
// room to exist and the caller to be a member of it.
func (s *Service) List(ctx context.Context, userID string, scope models.HoldingScope) ([]*models.Holding, error) {
	if scope.Kind == models.ScopeMine {
		return s.storage.Holdings().ListByUser(ctx, userID)
	}

	room, err := s.storage.Rooms().Get(ctx, scope.RoomCode)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(userID) {
		return nil, fmt.Errorf("not a member of room %s: %w", scope.RoomCode, models.ErrForbidden)
	}
	return s.storage.Holdings().ListByUsers(ctx, room.Members)
}

// Add creates a holding owned by the caller. Symbol and name are required.
func (s *Service) Add(ctx context.Context, userID string, draft models.HoldingDraft) (*models.Holding, error) {
	if draft.Symbol == "" || draft.Name == "" {
		return nil, fmt.Errorf("symbol and name are required: %w", models.ErrValidation)
	}

	holding := newHolding(userID, draft)
	if err := s.storage.Holdings().Save(ctx, holding); err != nil {
		return nil, fmt.Errorf("failed to save holding: %w", err)
	}
	return holding, nil
}

// BatchImport persists the drafts one by one, filling missing identity fields
// with import defaults. Items already written survive a mid-batch failure.
func (s *Service) BatchImport(ctx context.Context, userID string, drafts []models.HoldingDraft) ([]*models.Holding, error) {
	imported := make([]*models.Holding, 0, len(drafts))
	for _, draft := range drafts {
		if draft.Symbol == "" {
			draft.Symbol = models.DefaultHoldingSymbol
		}
		if draft.Name == "" {
			draft.Name = models.DefaultHoldingName
		}
		if draft.Notes == "" {
			draft.Notes = models.ImportedHoldingNotes
		}

		holding := newHolding(userID, draft)
		if err := s.storage.Holdings().Save(ctx, holding); err != nil {
			return imported, fmt.Errorf("failed to import holding %s: %w", holding.Symbol, err)
		}
		imported = append(imported, holding)
	}

	s.logger.Info().Str("user_id", userID).Int("count", len(imported)).Msg("Holdings imported")
	return imported, nil
}

// Update applies a partial update to a holding owned by the caller. A holding
// owned by someone else is indistinguishable from a missing one.
func (s *Service) Update(ctx context.Context, userID, id string, patch models.HoldingPatch) (*models.Holding, error) {
	holding, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	holding.Apply(patch)
	holding.UpdatedAt = time.Now().UTC()
	if err := s.storage.Holdings().Save(ctx, holding); err != nil {
		return nil, fmt.Errorf("failed to save holding: %w", err)
	}
	return holding, nil
}

// Remove deletes a holding owned by the caller.
func (s *Service) Remove(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.storage.Holdings().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

func (s *Service) getOwned(ctx context.Context, userID, id string) (*models.Holding, error) {
	holding, err := s.storage.Holdings().Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("holding %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	if holding.UserID != userID {
		return nil, fmt.Errorf("holding %s: %w", id, models.ErrNotFound)
	}
	return holding, nil
}

func newHolding(userID string, draft models.HoldingDraft) *models.Holding {
	return &models.Holding{
		ID:            uuid.NewString(),
		UserID:        userID,
		Symbol:        draft.Symbol,
		Name:          draft.Name,
		Quantity:      draft.Quantity,
		AvgPrice:      draft.AvgPrice,
		CurrentPrice:  draft.CurrentPrice,
		Profit:        draft.Profit,
		ProfitPercent: draft.ProfitPercent,
		Notes:         draft.Notes,
		UpdatedAt:     time.Now().UTC(),
	}
}

// Ensure Service implements HoldingService
var _ interfaces.HoldingService = (*Service)(nil)
