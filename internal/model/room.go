// Package model holds the data entities shared by the storage interfaces
// and the Game Engine. It contains plain structs plus small helpers
// (Room.Mutable, NewRoundSong).
package model

import "time"

// RoomStatus is the top-level state of a Room (spec §4.3.1).
type RoomStatus string

const (
	RoomLobby          RoomStatus = "lobby"
	RoomPlaying        RoomStatus = "playing"
	RoomBetweenRounds  RoomStatus = "between_rounds"
	RoomFinished       RoomStatus = "finished"
)

// Room is a live or historical game room.
type Room struct {
	ID          string
	Name        string
	Code        string // 4-char join code, unique among live rooms
	MasterIP    string
	Status      RoomStatus
	MaxPlayers  int
	MasterToken string // opaque secret, never sent to clients after creation
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Mutable reports whether the room's configuration may still change.
// Per spec §3: "A room in lobby may mutate configuration; once playing,
// configuration is frozen."
func (r *Room) Mutable() bool {
	return r.Status == RoomLobby
}
