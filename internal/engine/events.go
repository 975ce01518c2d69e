package engine

import "github.com/adrienmarquer/blindtest/internal/model"

// Audience selects the recipients of a broadcast Event (spec §4.2).
type AudienceKind string

const (
	AudienceAll     AudienceKind = "all"
	AudienceMaster  AudienceKind = "master"
	AudiencePlayers AudienceKind = "players"
	AudiencePlayer  AudienceKind = "player"  // PlayerID set
	AudienceExcept  AudienceKind = "except"  // PlayerID set, excluded
)

type Audience struct {
	Kind     AudienceKind
	PlayerID string
}

func All() Audience               { return Audience{Kind: AudienceAll} }
func MasterOnly() Audience        { return Audience{Kind: AudienceMaster} }
func PlayersOnly() Audience       { return Audience{Kind: AudiencePlayers} }
func OnlyPlayer(id string) Audience  { return Audience{Kind: AudiencePlayer, PlayerID: id} }
func ExceptPlayer(id string) Audience { return Audience{Kind: AudienceExcept, PlayerID: id} }

// Event is one outbound message the Engine emits for its room. The Hub
// delivers Events unchanged to every socket matching the Audience, in
// emission order (spec §4.2, §5 ordering guarantee #2); where a payload
// differs by role, the Engine emits one Event per Audience.
type Event struct {
	Type     string
	Audience Audience
	Payload  any
}

// --- Server -> client payloads (spec §6.1) ---

type ConnectedPayload struct {
	RoomID string `json:"roomId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PlayerPublic struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Connected  bool   `json:"connected"`
	Score      int    `json:"score"`
	RoundScore int    `json:"roundScore"`
}

func publicPlayer(p *model.Player) PlayerPublic {
	return PlayerPublic{
		ID:         p.ID,
		Name:       p.Name,
		Role:       string(p.Role),
		Connected:  p.Connected,
		Score:      p.Score,
		RoundScore: p.RoundScore,
	}
}

type RoomSnapshot struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Status string `json:"status"`
}

type CurrentRoundSnapshot struct {
	RoundIndex int    `json:"roundIndex"`
	ModeType   string `json:"modeType"`
	MediaType  string `json:"mediaType"`
	SongIndex  int    `json:"songIndex"`
	SongStatus string `json:"songStatus"`
}

type StateSyncedPayload struct {
	Room          RoomSnapshot           `json:"room"`
	Players       []PlayerPublic         `json:"players"`
	CurrentRound  *CurrentRoundSnapshot  `json:"currentRound,omitempty"`
}

type PlayerJoinedPayload struct {
	Player PlayerPublic `json:"player"`
	Room   RoomSnapshot `json:"room"`
}

type PlayerLeftPayload struct {
	PlayerID         string `json:"playerId"`
	PlayerName       string `json:"playerName"`
	RemainingPlayers int    `json:"remainingPlayers"`
}

type PlayerKickedPayload struct {
	Reason string `json:"reason"`
}

type PlayerDisconnectedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type PlayerReconnectedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type GameStartedPayload struct {
	Session SessionSnapshot `json:"session"`
	Room    RoomSnapshot    `json:"room"`
}

type SessionSnapshot struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	CurrentRoundIndex int    `json:"currentRoundIndex"`
}

type RoundStartedPayload struct {
	RoundIndex int    `json:"roundIndex"`
	ModeType   string `json:"modeType"`
	MediaType  string `json:"mediaType"`
	SongCount  int    `json:"songCount"`
}

type SongStartedPayload struct {
	SongIndex     int    `json:"songIndex"`
	Duration      int    `json:"duration"`
	ClipStart     int    `json:"clipStart"`
	AudioPlayback string `json:"audioPlayback"`
	SongTitle     string `json:"songTitle,omitempty"`  // master only
	SongArtist    string `json:"songArtist,omitempty"` // master only
}

type PlayerBuzzedPayload struct {
	PlayerID       string   `json:"playerId"`
	PlayerName     string   `json:"playerName"`
	SongIndex      int      `json:"songIndex"`
	Timestamp      int64    `json:"timestamp"`
	ArtistQuestion *Question `json:"artistQuestion,omitempty"` // buzzer only
}

type Question struct {
	Choices []string `json:"choices"`
}

type BuzzRejectedPayload struct {
	PlayerID string `json:"playerId"`
	Reason   string `json:"reason"`
}

type AnswerResultPayload struct {
	PlayerID      string `json:"playerId"`
	PlayerName    string `json:"playerName"`
	AnswerType    string `json:"answerType"`
	IsCorrect     bool   `json:"isCorrect"`
	PointsAwarded int    `json:"pointsAwarded"`
}

type ChoicesPayload struct {
	PlayerID string   `json:"playerId"`
	Choices  []string `json:"choices"`
}

type SongEndedPayload struct {
	SongIndex     int    `json:"songIndex"`
	CorrectTitle  string `json:"correctTitle"`
	CorrectArtist string `json:"correctArtist"`
}

type PlayerRoundScore struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
	Rank       int    `json:"rank"`
}

type RoundEndedPayload struct {
	RoundIndex int                `json:"roundIndex"`
	Scores     []PlayerRoundScore `json:"scores"`
}

type RoundBetweenPayload struct {
	CompletedRoundIndex int                `json:"completedRoundIndex"`
	NextRoundIndex      int                `json:"nextRoundIndex"`
	NextRoundMode       string             `json:"nextRoundMode"`
	NextRoundMedia      string             `json:"nextRoundMedia"`
	Scores              []PlayerRoundScore `json:"scores"`
}

type PlayerFinalScore struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	TotalScore  int    `json:"totalScore"`
	Rank        int    `json:"rank"`
	RoundScores []int  `json:"roundScores"`
}

type GameEndedPayload struct {
	FinalScores []PlayerFinalScore `json:"finalScores"`
}

type SimplePayload struct{}
