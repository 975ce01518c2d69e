package model

// RoundStatus is the lifecycle state of a Round.
type RoundStatus string

const (
	RoundPending  RoundStatus = "pending"
	RoundActive   RoundStatus = "active"
	RoundFinished RoundStatus = "finished"
)

// SongFilters selects a pool of songs from the library for a round that was
// not given an explicit song list (§6.3 Songs.findByFilters).
type SongFilters struct {
	Genre        string
	YearMin      int
	YearMax      int
	ArtistName   string
	SongCount    int
	IncludeNiche bool
}

// ModeParams is the recognised, overridable parameter set from the glossary.
// Pointer fields distinguish "unset" (pass through in the Parameter
// Resolver's overlay) from an explicit zero value.
type ModeParams struct {
	SongDuration         *int  // seconds, default 30
	AnswerTimer          *int  // seconds, default 5
	NumChoices           *int  // default 4
	PointsTitle          *int  // default 1
	PointsArtist         *int  // default 1
	PenaltyEnabled       *bool // default false
	PenaltyAmount        *int  // default 0
	AllowRebuzz          *bool // default true
	ManualValidation     *bool // default false
	FuzzyMatch           *bool // default true
	LevenshteinDistance  *int  // default 2
}

// RoundConfig is the per-round configuration resolved at game start,
// combining mode/media selection with optional overrides (§4.3.1).
type RoundConfig struct {
	ModeType    string
	MediaType   string
	Params      ModeParams
	SongFilters *SongFilters
	SongIDs     []string // explicit song list, alternative to SongFilters
}

// Round is one materialised round of a Session.
type Round struct {
	ID          string
	SessionID   string
	Index       int // 0-based, dense
	ModeType    string
	MediaType   string
	Params      ModeParams
	SongFilters *SongFilters
	Status      RoundStatus
	Songs       []*RoundSong
}

// SongStatus is the lifecycle state of a single RoundSong (§4.3.2).
type SongStatus string

const (
	SongPending  SongStatus = "pending"
	SongPlaying  SongStatus = "playing"
	SongAnswering SongStatus = "answering"
	SongFinished SongStatus = "finished"
)

// AnswerType distinguishes which field of the underlying Song is being
// guessed.
type AnswerType string

const (
	AnswerTitle  AnswerType = "title"
	AnswerArtist AnswerType = "artist"
)

// Question is a multiple-choice prompt materialised for a RoundSong: the
// correct value plus a shuffled choice set including it (§4.6).
type Question struct {
	Correct string
	Choices []string
}

// RoundSong is one song within a Round, carrying all of its live buzz/answer
// state (§3 invariants).
type RoundSong struct {
	Index              int
	Song               *Song
	Status             SongStatus
	ActivePlayerID     string // empty when none
	LockedOutPlayerIDs map[string]bool
	BuzzTimestamps     map[string]int64 // playerID -> client-provided ms tick
	TitleQuestion      *Question
	ArtistQuestion     *Question
	Answers            []*Answer // append-only
	Params             ModeParams // effective, resolved params for this song

	// DisplayTitle/DisplayArtist are the Media Registry's normalised view of
	// Song.Title/Song.Artist (spec §4.5), refreshed by the Engine at song
	// start. Default to the raw Song fields until a handler resolves.
	DisplayTitle  string
	DisplayArtist string

	// Mode-specific progress bookkeeping (supplemental; grounded on the
	// teacher's ad-hoc per-hub maps, promoted to first-class fields per
	// spec §9's guidance on buzzTimestamps).
	AnsweredTypes map[string]map[AnswerType]bool // playerID -> which types answered this song
}

// NewRoundSong builds a RoundSong in its pending state.
func NewRoundSong(index int, song *Song, params ModeParams) *RoundSong {
	return &RoundSong{
		Index:              index,
		Song:               song,
		Status:             SongPending,
		LockedOutPlayerIDs: make(map[string]bool),
		BuzzTimestamps:     make(map[string]int64),
		AnsweredTypes:      make(map[string]map[AnswerType]bool),
		Params:             params,
		DisplayTitle:       song.Title,
		DisplayArtist:      song.Artist,
	}
}

// Answer is one submitted guess, resolved or not.
type Answer struct {
	ID             string
	PlayerID       string
	RoundID        string
	SongID         string
	Type           AnswerType
	Value          string
	SubmittedAt    int64 // unix millis
	TimeToAnswerMS int64
	IsCorrect      bool
	PointsAwarded  int
}
