// Package memory implements InvestSync storage in process memory. It backs
// local development without a database and the service/handler test suites.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/interfaces"
	"github.com/bobmcallan/investsync/internal/models"
)

// Manager implements interfaces.StorageManager with in-process maps.
type Manager struct {
	userStore    *UserStore
	roomStore    *RoomStore
	holdingStore *HoldingStore
}

// NewManager creates an empty in-memory storage manager.
func NewManager(logger *common.Logger) *Manager {
	return &Manager{
		userStore:    &UserStore{users: map[string]models.User{}},
		roomStore:    &RoomStore{rooms: map[string]models.Room{}},
		holdingStore: &HoldingStore{holdings: map[string]models.Holding{}},
	}
}

func (m *Manager) Users() interfaces.UserStore       { return m.userStore }
func (m *Manager) Rooms() interfaces.RoomStore       { return m.roomStore }
func (m *Manager) Holdings() interfaces.HoldingStore { return m.holdingStore }

func (m *Manager) Close() error { return nil }

// UserStore is the in-memory user table.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func (s *UserStore) Get(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return &user, nil
}

func (s *UserStore) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Phone == phone {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with phone %s: %w", phone, models.ErrNotFound)
}

func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

// RoomStore is the in-memory room table.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]models.Room
}

func (s *RoomStore) Get(ctx context.Context, code string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", code, models.ErrNotFound)
	}
	return cloneRoom(room), nil
}

func (s *RoomStore) Save(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = *cloneRoom(*room)
	return nil
}

func (s *RoomStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *RoomStore) FindByMember(ctx context.Context, userID string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []models.Room
	for _, room := range s.rooms {
		for _, m := range room.Members {
			if m == userID {
				matches = append(matches, room)
				break
			}
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}

	// Most recently created first, matching the SurrealDB query ordering.
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return cloneRoom(matches[0]), nil
}

func cloneRoom(room models.Room) *models.Room {
	r := room
	r.Members = append([]string(nil), room.Members...)
	return &r
}

// HoldingStore is the in-memory holding table.
type HoldingStore struct {
	mu       sync.RWMutex
	holdings map[string]models.Holding
}

func (s *HoldingStore) Get(ctx context.Context, id string) (*models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	holding, ok := s.holdings[id]
	if !ok {
		return nil, fmt.Errorf("holding %s: %w", id, models.ErrNotFound)
	}
	return &holding, nil
}

func (s *HoldingStore) Save(ctx context.Context, holding *models.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings[holding.ID] = *holding
	return nil
}

func (s *HoldingStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.holdings, id)
	return nil
}

func (s *HoldingStore) ListByUser(ctx context.Context, userID string) ([]*models.Holding, error) {
	return s.ListByUsers(ctx, []string{userID})
}

func (s *HoldingStore) ListByUsers(ctx context.Context, userIDs []string) ([]*models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		owners[id] = true
	}

	var matches []*models.Holding
	for _, holding := range s.holdings {
		if owners[holding.UserID] {
			h := holding
			matches = append(matches, &h)
		}
	}

	// Newest first, matching the SurrealDB query ordering.
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})
	return matches, nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
