package gormstore

import (
	"time"

	"github.com/adrienmarquer/blindtest/internal/model"
)

// RoomRow is the gorm-mapped row for model.Room (grounded on the gorm
// struct-tag style in mmausa2000-ubible/models/models.go).
type RoomRow struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Code        string `gorm:"uniqueIndex"`
	MasterIP    string
	Status      string `gorm:"index"`
	MaxPlayers  int
	MasterToken string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (RoomRow) TableName() string { return "rooms" }

func roomToRow(r *model.Room) *RoomRow {
	return &RoomRow{
		ID:          r.ID,
		Name:        r.Name,
		Code:        r.Code,
		MasterIP:    r.MasterIP,
		Status:      string(r.Status),
		MaxPlayers:  r.MaxPlayers,
		MasterToken: r.MasterToken,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func rowToRoom(r *RoomRow) *model.Room {
	return &model.Room{
		ID:          r.ID,
		Name:        r.Name,
		Code:        r.Code,
		MasterIP:    r.MasterIP,
		Status:      model.RoomStatus(r.Status),
		MaxPlayers:  r.MaxPlayers,
		MasterToken: r.MasterToken,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// PlayerRow is the gorm-mapped row for model.Player.
type PlayerRow struct {
	ID             string `gorm:"primaryKey"`
	RoomID         string `gorm:"index:idx_room_name,unique"`
	Name           string `gorm:"index:idx_room_name,unique"`
	Role           string
	Connected      bool
	Score          int
	RoundScore     int
	IsActive       bool
	IsLockedOut    bool
	BuzzesWon      int
	BuzzesLost     int
	AnswersCorrect int
	AnswersWrong   int
}

func (PlayerRow) TableName() string { return "players" }

func playerToRow(p *model.Player) *PlayerRow {
	return &PlayerRow{
		ID:             p.ID,
		RoomID:         p.RoomID,
		Name:           p.Name,
		Role:           string(p.Role),
		Connected:      p.Connected,
		Score:          p.Score,
		RoundScore:     p.RoundScore,
		IsActive:       p.IsActive,
		IsLockedOut:    p.IsLockedOut,
		BuzzesWon:      p.Stats.BuzzesWon,
		BuzzesLost:     p.Stats.BuzzesLost,
		AnswersCorrect: p.Stats.AnswersCorrect,
		AnswersWrong:   p.Stats.AnswersWrong,
	}
}

func rowToPlayer(r *PlayerRow) *model.Player {
	return &model.Player{
		ID:          r.ID,
		RoomID:      r.RoomID,
		Name:        r.Name,
		Role:        model.Role(r.Role),
		Connected:   r.Connected,
		Score:       r.Score,
		RoundScore:  r.RoundScore,
		IsActive:    r.IsActive,
		IsLockedOut: r.IsLockedOut,
		Stats: model.PlayerStats{
			BuzzesWon:      r.BuzzesWon,
			BuzzesLost:     r.BuzzesLost,
			AnswersCorrect: r.AnswersCorrect,
			AnswersWrong:   r.AnswersWrong,
		},
	}
}
