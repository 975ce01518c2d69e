// Package store declares the five repository contracts the Game Engine
// depends on (spec §6.3). The physical persistence layer is an external
// collaborator per spec §1; this package only defines the interfaces, plus
// the shared patch/filter types they accept.
package store

import (
	"context"

	"github.com/adrienmarquer/blindtest/internal/model"
)

// Rooms is the repository contract for Room records.
type Rooms interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindByCode(ctx context.Context, code string) (*model.Room, error)
	FindByStatus(ctx context.Context, status model.RoomStatus) ([]*model.Room, error)
	Create(ctx context.Context, room *model.Room) error
	Update(ctx context.Context, id string, patch RoomPatch) error
	Delete(ctx context.Context, id string) error
	GetMasterToken(ctx context.Context, id string) (string, error)
}

// RoomPatch names the subset of Room fields an Update call may mutate.
type RoomPatch struct {
	Name       *string
	Status     *model.RoomStatus
	MaxPlayers *int
}

// Players is the repository contract for Player records.
type Players interface {
	FindByID(ctx context.Context, id string) (*model.Player, error)
	FindByRoom(ctx context.Context, roomID string) ([]*model.Player, error)
	FindByRoomAndName(ctx context.Context, roomID, name string) (*model.Player, error)
	CountConnected(ctx context.Context, roomID string) (int, error)
	Create(ctx context.Context, player *model.Player) error
	Update(ctx context.Context, id string, patch PlayerPatch) error
	Delete(ctx context.Context, id string) error
	DeleteByRoom(ctx context.Context, roomID string) error
	ResetScores(ctx context.Context, roomID string) error
}

// PlayerPatch names the subset of Player fields an Update call may mutate.
type PlayerPatch struct {
	Name        *string
	Connected   *bool
	Score       *int
	RoundScore  *int
	IsActive    *bool
	IsLockedOut *bool
}

// Sessions is the repository contract for Session records.
type Sessions interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
	FindByRoom(ctx context.Context, roomID string) (*model.Session, error)
	Create(ctx context.Context, session *model.Session) error
	Update(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
	EndSession(ctx context.Context, id string) error
	NextRound(ctx context.Context, id string) error
	NextSong(ctx context.Context, id string) error
}

// SongFilterQuery mirrors spec §6.3's Songs.findByFilters parameter set.
type SongFilterQuery struct {
	Genre        string
	YearMin      int
	YearMax      int
	ArtistName   string
	SongCount    int
	IncludeNiche bool
}

// SimilarQuery mirrors spec §6.3's Songs.findSimilar parameter set.
type SimilarQuery struct {
	Genre         string
	YearMin       int
	YearMax       int
	Language      string
	ExcludeSongID string
	Limit         int
}

// Songs is the repository contract for the song library.
type Songs interface {
	FindByID(ctx context.Context, id string) (*model.Song, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Song, error)
	FindByFilters(ctx context.Context, q SongFilterQuery) ([]*model.Song, error)
	FindSimilar(ctx context.Context, q SimilarQuery) ([]*model.Song, error)
	GetRandom(ctx context.Context, count int, includeNiche bool) ([]*model.Song, error)
	Create(ctx context.Context, song *model.Song) error
	Update(ctx context.Context, song *model.Song) error
	Delete(ctx context.Context, id string) error
}

// Playlists is the repository contract for playlists.
type Playlists interface {
	FindByID(ctx context.Context, id string) (*model.Playlist, error)
	Create(ctx context.Context, playlist *model.Playlist) error
	Update(ctx context.Context, playlist *model.Playlist) error
	Delete(ctx context.Context, id string) error
	SetSongs(ctx context.Context, playlistID string, songIDs []string) error
}

// Repositories bundles the five contracts the Engine/Hub depend on, so
// callers can wire one cohesive implementation (memstore, gormstore, ...)
// through a single value.
type Repositories struct {
	Rooms     Rooms
	Players   Players
	Sessions  Sessions
	Songs     Songs
	Playlists Playlists
}
