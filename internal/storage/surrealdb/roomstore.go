package surrealdb

import (
	"context"
	"fmt"

	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

type RoomStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewRoomStore(db *surrealdb.DB, logger *common.Logger) *RoomStore {
	return &RoomStore{
		db:     db,
		logger: logger,
	}
}

func (s *RoomStore) Get(ctx context.Context, code string) (*models.Room, error) {
	room, err := surrealdb.Select[models.Room](ctx, s.db, surrealmodels.NewRecordID("room", code))
	if err != nil {
		return nil, fmt.Errorf("failed to select room: %w", err)
	}
	if room == nil || room.Code == "" {
		return nil, fmt.Errorf("room %s: %w", code, models.ErrNotFound)
	}
	return room, nil
}

func (s *RoomStore) Save(ctx context.Context, room *models.Room) error {
	// Members can legitimately be empty mid-update; normalize nil so the
	// stored document always carries an array.
	if room.Members == nil {
		room.Members = []string{}
	}

	sql := "UPSERT type::record('room', $code) CONTENT $room"
	vars := map[string]any{"code": room.Code, "room": room}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Room](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save room after retries: %w", lastErr)
}

func (s *RoomStore) Delete(ctx context.Context, code string) error {
	_, err := surrealdb.Delete[models.Room](ctx, s.db, surrealmodels.NewRecordID("room", code))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

func (s *RoomStore) FindByMember(ctx context.Context, userID string) (*models.Room, error) {
	sql := "SELECT * FROM room WHERE $user_id IN members ORDER BY createdAt DESC LIMIT 1"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Room](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query room by member: %w", err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

func (s *RoomStore) Close() error {
	return nil
}
