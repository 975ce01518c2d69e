// Package media implements the Media Registry (spec §4.5): normalising
// stored content items into a MediaContent view and supplying the
// distractor/validation policy default for a given media kind.
package media

import (
	"strings"

	"github.com/adrienmarquer/blindtest/internal/model"
)

// MediaContent is the normalised view of a content item handed to a Mode.
type MediaContent struct {
	ID       string
	Title    string
	Artist   string
	FilePath string
	Text     string
	Metadata map[string]string
}

// Handler is the contract every media kind implements (spec §4.5).
type Handler interface {
	Name() string
	LoadContent(item *model.Song) (MediaContent, error)
	ValidateMatch(answer, correct string) bool
}

// baseHandler supplies the default ValidateMatch (normalised
// case-insensitive equality) so concrete handlers only override what
// differs, per the design notes' "small composable helper type" guidance.
type baseHandler struct{ name string }

func (b baseHandler) Name() string { return b.name }

func (b baseHandler) ValidateMatch(answer, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(correct))
}

// ValidateMatch applies the shared baseHandler equality policy (normalised
// case-insensitive match) without requiring a concrete Handler instance;
// every registered handler uses this same rule, so choice-based Modes
// validate answers against it directly rather than reimplementing it
// (spec §4.5).
func ValidateMatch(answer, correct string) bool {
	return baseHandler{}.ValidateMatch(answer, correct)
}

// Music is the only media handler required by core gameplay (spec §4.5).
type Music struct{ baseHandler }

func NewMusic() *Music { return &Music{baseHandler{name: "music"}} }

func (m *Music) LoadContent(item *model.Song) (MediaContent, error) {
	return MediaContent{
		ID:       item.ID,
		Title:    item.Title,
		Artist:   item.Artist,
		FilePath: item.FilePath,
		Metadata: map[string]string{
			"album": item.Album,
			"genre": item.Genre,
		},
	}, nil
}

// Picture, Video and TextQuestion are registrable for future extension;
// LoadContent refuses until a concrete content pipeline exists, per spec
// §4.5 ("may refuse loadContent").
type Picture struct{ baseHandler }

func NewPicture() *Picture { return &Picture{baseHandler{name: "picture"}} }

func (p *Picture) LoadContent(item *model.Song) (MediaContent, error) {
	return MediaContent{}, errUnsupported(p.name)
}

type Video struct{ baseHandler }

func NewVideo() *Video { return &Video{baseHandler{name: "video"}} }

func (v *Video) LoadContent(item *model.Song) (MediaContent, error) {
	return MediaContent{}, errUnsupported(v.name)
}

type TextQuestion struct{ baseHandler }

func NewTextQuestion() *TextQuestion { return &TextQuestion{baseHandler{name: "text_question"}} }

func (t *TextQuestion) LoadContent(item *model.Song) (MediaContent, error) {
	return MediaContent{}, errUnsupported(t.name)
}

type unsupportedErr string

func (u unsupportedErr) Error() string { return "media: " + string(u) + " content loading not implemented" }

func errUnsupported(name string) error { return unsupportedErr(name) }
