// Package room implements the shared room registry.
package room

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/interfaces"
	"github.com/bobmcallan/investsync/internal/models"
)

// codeAttempts bounds the retry loop when a generated room code collides.
const codeAttempts = 20

// Service implements interfaces.RoomService.
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

// Create creates a room with a fresh 4-digit code and the caller as host and
// sole member.
func (s *Service) Create(ctx context.Context, userID string) (*models.Room, error) {
	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		Code:      code,
		HostID:    userID,
		Members:   []string{userID},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.Rooms().Save(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	s.logger.Info().Str("code", code).Str("host", userID).Msg("Room created")
	return room, nil
}

// Join adds the caller to an existing room. Joining a room the caller is
// already in succeeds without changing anything.
func (s *Service) Join(ctx context.Context, userID, code string) (*models.Room, error) {
	room, err := s.storage.Rooms().Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.AddMember(userID) {
		if err := s.storage.Rooms().Save(ctx, room); err != nil {
			return nil, fmt.Errorf("failed to save room: %w", err)
		}
		s.logger.Info().Str("code", code).Str("user", userID).Msg("User joined room")
	}
	return room, nil
}

// Active returns the caller's current room with member identities resolved,
// or (nil, nil) when the caller is in no room. When the caller belongs to
// several rooms the most recently created one wins.
func (s *Service) Active(ctx context.Context, userID string) (*models.RoomDetail, error) {
	room, err := s.storage.Rooms().FindByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	if room == nil {
		return nil, nil
	}

	detail := &models.RoomDetail{
		Code:      room.Code,
		HostID:    room.HostID,
		Members:   make([]models.RoomMember, 0, len(room.Members)),
		CreatedAt: room.CreatedAt,
	}
	for _, memberID := range room.Members {
		user, err := s.storage.Users().Get(ctx, memberID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				// Stale membership entry, skip it.
				continue
			}
			return nil, fmt.Errorf("failed to resolve member: %w", err)
		}
		detail.Members = append(detail.Members, models.RoomMember{
			ID:    user.ID,
			Name:  user.Name,
			Phone: user.Phone,
		})
	}
	return detail, nil
}

// Leave removes the caller from the room. The last member leaving deletes the
// room; a departing host hands the room to the earliest remaining member.
func (s *Service) Leave(ctx context.Context, userID, code string) error {
	room, err := s.storage.Rooms().Get(ctx, code)
	if err != nil {
		return err
	}

	if !room.RemoveMember(userID) {
		return nil
	}

	if len(room.Members) == 0 {
		if err := s.storage.Rooms().Delete(ctx, code); err != nil {
			return fmt.Errorf("failed to delete room: %w", err)
		}
		s.logger.Info().Str("code", code).Msg("Room deleted, last member left")
		return nil
	}

	if room.HostID == userID {
		room.HostID = room.Members[0]
		s.logger.Info().Str("code", code).Str("host", room.HostID).Msg("Room host reassigned")
	}

	if err := s.storage.Rooms().Save(ctx, room); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// Kick removes targetID from the room. Only the host may kick; kicking a user
// who is not a member succeeds without effect.
func (s *Service) Kick(ctx context.Context, userID, code, targetID string) (*models.Room, error) {
	room, err := s.storage.Rooms().Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.HostID != userID {
		return nil, fmt.Errorf("only the host can kick members: %w", models.ErrForbidden)
	}

	if room.RemoveMember(targetID) {
		if err := s.storage.Rooms().Save(ctx, room); err != nil {
			return nil, fmt.Errorf("failed to save room: %w", err)
		}
		s.logger.Info().Str("code", code).Str("target", targetID).Msg("Member kicked from room")
	}
	return room, nil
}

func (s *Service) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := fmt.Sprintf("%d", 1000+rand.IntN(9000))
		_, err := s.storage.Rooms().Get(ctx, code)
		if errors.Is(err, models.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check room code: %w", err)
		}
	}
	return "", fmt.Errorf("failed to allocate a unique room code")
}

// Ensure Service implements RoomService
var _ interfaces.RoomService = (*Service)(nil)
