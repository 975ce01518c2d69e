package model

import "time"

// SessionStatus is the lifecycle state of a game Session.
type SessionStatus string

const (
	SessionWaiting  SessionStatus = "waiting"
	SessionPlaying  SessionStatus = "playing"
	SessionPaused   SessionStatus = "paused"
	SessionFinished SessionStatus = "finished"
)

// Session is the single live playthrough of a playing Room.
type Session struct {
	ID                string
	RoomID            string
	Status            SessionStatus
	CurrentRoundIndex int
	CurrentSongIndex  int
	StartedAt         time.Time
	EndedAt           *time.Time
}
