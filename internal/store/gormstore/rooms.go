package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/store"
)

// Rooms is the postgres-backed store.Rooms implementation.
type Rooms struct {
	db *gorm.DB
}

func NewRooms(db *gorm.DB) *Rooms {
	return &Rooms{db: db}
}

func (s *Rooms) FindByID(ctx context.Context, id string) (*model.Room, error) {
	var row RoomRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("room not found")
		}
		return nil, apperrors.Internal(fmt.Errorf("gormstore: find room: %w", err))
	}
	return rowToRoom(&row), nil
}

func (s *Rooms) FindByCode(ctx context.Context, code string) (*model.Room, error) {
	var row RoomRow
	if err := s.db.WithContext(ctx).First(&row, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("room not found")
		}
		return nil, apperrors.Internal(fmt.Errorf("gormstore: find room by code: %w", err))
	}
	return rowToRoom(&row), nil
}

func (s *Rooms) FindByStatus(ctx context.Context, status model.RoomStatus) ([]*model.Room, error) {
	var rows []RoomRow
	if err := s.db.WithContext(ctx).Where("status = ?", string(status)).Find(&rows).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("gormstore: find rooms by status: %w", err))
	}
	out := make([]*model.Room, 0, len(rows))
	for i := range rows {
		out = append(out, rowToRoom(&rows[i]))
	}
	return out, nil
}

func (s *Rooms) Create(ctx context.Context, room *model.Room) error {
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	row := roomToRow(room)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("room code already in use")
		}
		return apperrors.Internal(fmt.Errorf("gormstore: create room: %w", err))
	}
	return nil
}

func (s *Rooms) Update(ctx context.Context, id string, patch store.RoomPatch) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	if patch.MaxPlayers != nil {
		updates["max_players"] = *patch.MaxPlayers
	}

	res := s.db.WithContext(ctx).Model(&RoomRow{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return apperrors.Internal(fmt.Errorf("gormstore: update room: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("room not found")
	}
	return nil
}

func (s *Rooms) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&RoomRow{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Internal(fmt.Errorf("gormstore: delete room: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("room not found")
	}
	return nil
}

func (s *Rooms) GetMasterToken(ctx context.Context, id string) (string, error) {
	var row RoomRow
	if err := s.db.WithContext(ctx).Select("master_token").First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("room not found")
		}
		return "", apperrors.Internal(fmt.Errorf("gormstore: get master token: %w", err))
	}
	return row.MasterToken, nil
}
