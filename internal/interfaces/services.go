package interfaces

import (
	"context"

	"github.com/bobmcallan/investsync/internal/models"
)

// AuthService issues and validates session tokens.
type AuthService interface {
	// Login upserts the user keyed by phone (creating on first login,
	// renaming when the name changed) and returns the user with a signed
	// session token.
	Login(ctx context.Context, phone, name string) (*models.User, string, error)

	// Authenticate verifies a token and resolves the embedded user id to a
	// current user record. Any failure is models.ErrUnauthorized.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RoomService implements the room registry: creation with unique 4-digit
// codes, idempotent joins, host-only kicks, and host reassignment on leave.
type RoomService interface {
	Create(ctx context.Context, userID string) (*models.Room, error)
	Join(ctx context.Context, userID, code string) (*models.Room, error)

	// Active returns the caller's current room with member identities
	// resolved, or (nil, nil) when the caller is in no room.
	Active(ctx context.Context, userID string) (*models.RoomDetail, error)

	Leave(ctx context.Context, userID, code string) error
	Kick(ctx context.Context, userID, code, targetID string) (*models.Room, error)
}

// HoldingService implements the holding ledger.
type HoldingService interface {
	List(ctx context.Context, userID string, scope models.HoldingScope) ([]*models.Holding, error)
	Add(ctx context.Context, userID string, draft models.HoldingDraft) (*models.Holding, error)

	// BatchImport applies Add semantics per item, non-atomically: each item
	// persists independently and a failure aborts the remainder but does not
	// roll back items already written.
	BatchImport(ctx context.Context, userID string, drafts []models.HoldingDraft) ([]*models.Holding, error)

	Update(ctx context.Context, userID, id string, patch models.HoldingPatch) (*models.Holding, error)
	Remove(ctx context.Context, userID, id string) error
}

// TrendService orchestrates the AI adapter: screenshot extraction (errors
// propagate) and market trend analysis (errors are swallowed into an empty
// result).
type TrendService interface {
	ExtractFromImage(ctx context.Context, image []byte, mimeType string) ([]models.HoldingDraft, error)
	MarketTrends(ctx context.Context, holdings []*models.Holding) ([]models.MarketTrend, error)
}
