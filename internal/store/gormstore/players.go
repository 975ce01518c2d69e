package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/store"
)

// Players is the postgres-backed store.Players implementation.
type Players struct {
	db *gorm.DB
}

func NewPlayers(db *gorm.DB) *Players {
	return &Players{db: db}
}

func (s *Players) FindByID(ctx context.Context, id string) (*model.Player, error) {
	var row PlayerRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("player not found")
		}
		return nil, apperrors.Internal(fmt.Errorf("gormstore: find player: %w", err))
	}
	return rowToPlayer(&row), nil
}

func (s *Players) FindByRoom(ctx context.Context, roomID string) ([]*model.Player, error) {
	var rows []PlayerRow
	if err := s.db.WithContext(ctx).Where("room_id = ?", roomID).Find(&rows).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("gormstore: find players by room: %w", err))
	}
	out := make([]*model.Player, 0, len(rows))
	for i := range rows {
		out = append(out, rowToPlayer(&rows[i]))
	}
	return out, nil
}

func (s *Players) FindByRoomAndName(ctx context.Context, roomID, name string) (*model.Player, error) {
	var row PlayerRow
	if err := s.db.WithContext(ctx).First(&row, "room_id = ? AND name = ?", roomID, name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("player not found")
		}
		return nil, apperrors.Internal(fmt.Errorf("gormstore: find player by name: %w", err))
	}
	return rowToPlayer(&row), nil
}

func (s *Players) CountConnected(ctx context.Context, roomID string) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&PlayerRow{}).
		Where("room_id = ? AND connected = ?", roomID, true).
		Count(&n).Error; err != nil {
		return 0, apperrors.Internal(fmt.Errorf("gormstore: count connected players: %w", err))
	}
	return int(n), nil
}

// Create enforces the (roomId, name) uniqueness invariant via the
// idx_room_name unique index declared on PlayerRow.
func (s *Players) Create(ctx context.Context, player *model.Player) error {
	row := playerToRow(player)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("player name already taken in this room")
		}
		return apperrors.Internal(fmt.Errorf("gormstore: create player: %w", err))
	}
	return nil
}

func (s *Players) Update(ctx context.Context, id string, patch store.PlayerPatch) error {
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Connected != nil {
		updates["connected"] = *patch.Connected
	}
	if patch.Score != nil {
		updates["score"] = *patch.Score
	}
	if patch.RoundScore != nil {
		updates["round_score"] = *patch.RoundScore
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.IsLockedOut != nil {
		updates["is_locked_out"] = *patch.IsLockedOut
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&PlayerRow{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return apperrors.Internal(fmt.Errorf("gormstore: update player: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("player not found")
	}
	return nil
}

func (s *Players) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&PlayerRow{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Internal(fmt.Errorf("gormstore: delete player: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("player not found")
	}
	return nil
}

func (s *Players) DeleteByRoom(ctx context.Context, roomID string) error {
	if err := s.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&PlayerRow{}).Error; err != nil {
		return apperrors.Internal(fmt.Errorf("gormstore: delete players by room: %w", err))
	}
	return nil
}

func (s *Players) ResetScores(ctx context.Context, roomID string) error {
	if err := s.db.WithContext(ctx).Model(&PlayerRow{}).
		Where("room_id = ?", roomID).
		Updates(map[string]any{"score": 0, "round_score": 0}).Error; err != nil {
		return apperrors.Internal(fmt.Errorf("gormstore: reset scores: %w", err))
	}
	return nil
}
