package memstore

import "github.com/adrienmarquer/blindtest/internal/store"

// New builds a fully in-memory store.Repositories bundle.
func New() store.Repositories {
	return store.Repositories{
		Rooms:     NewRooms(),
		Players:   NewPlayers(),
		Sessions:  NewSessions(),
		Songs:     NewSongs(),
		Playlists: NewPlaylists(),
	}
}
