// Package interfaces defines service contracts for InvestSync
package interfaces

import (
	"context"

	"github.com/bobmcallan/investsync/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	Users() UserStore
	Rooms() RoomStore
	Holdings() HoldingStore

	// Lifecycle
	Close() error
}

// UserStore manages user accounts keyed by id, with phone as the unique
// login key. Missing records are reported as models.ErrNotFound.
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

// RoomStore manages rooms keyed by their 4-digit code.
type RoomStore interface {
	Get(ctx context.Context, code string) (*models.Room, error)
	Save(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, code string) error

	// FindByMember returns the room containing userID, most recently created
	// first when the user is somehow in several. Returns (nil, nil) when the
	// user is in no room.
	FindByMember(ctx context.Context, userID string) (*models.Room, error)
}

// HoldingStore manages holding records keyed by id.
type HoldingStore interface {
	Get(ctx context.Context, id string) (*models.Holding, error)
	Save(ctx context.Context, holding *models.Holding) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Holding, error)
	ListByUsers(ctx context.Context, userIDs []string) ([]*models.Holding, error)
}
