package gormstore

import (
	"strings"

	"gorm.io/gorm"

	"github.com/adrienmarquer/blindtest/internal/store"
	"github.com/adrienmarquer/blindtest/internal/store/memstore"
)

// isUniqueViolation reports whether err looks like a unique-constraint
// violation, across both postgres (pgx/pq wire errors carry an errcode of
// "23505") and sqlite, by checking the driver error text rather than
// importing each driver's error type (mirrors the pattern in
// mmausa2000-ubible's repository layer, which does the same text match to
// stay driver-agnostic).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

// New builds a store.Repositories bundle backed by postgres for Rooms and
// Players (the two repositories with real uniqueness/lookup invariants
// worth persisting across a restart) and falls back to the in-memory
// implementation for Sessions, Songs and Playlists, which spec §1 treats as
// either ephemeral or pre-seeded rather than the deployment's durable
// record. Callers that also want the song library persisted can swap in
// their own store.Songs implementation on the returned struct.
func New(db *gorm.DB) store.Repositories {
	mem := memstore.New()
	return store.Repositories{
		Rooms:     NewRooms(db),
		Players:   NewPlayers(db),
		Sessions:  mem.Sessions,
		Songs:     mem.Songs,
		Playlists: mem.Playlists,
	}
}
