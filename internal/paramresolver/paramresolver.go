// Package paramresolver implements the Parameter Resolver (spec §4.8):
// systemDefaults ⊕ modeDefaultParams ⊕ roundParams, a shallow overlay where
// defined keys on the right override the left.
package paramresolver

import "github.com/adrienmarquer/blindtest/internal/model"

// Resolve overlays modeDefaults over systemDefaults, then roundParams over
// the result, producing the effective ModeParams for a song.
func Resolve(systemDefaults, modeDefaults, roundParams model.ModeParams) model.ModeParams {
	out := overlay(systemDefaults, modeDefaults)
	out = overlay(out, roundParams)
	return out
}

func overlay(base, override model.ModeParams) model.ModeParams {
	out := base
	if override.SongDuration != nil {
		out.SongDuration = override.SongDuration
	}
	if override.AnswerTimer != nil {
		out.AnswerTimer = override.AnswerTimer
	}
	if override.NumChoices != nil {
		out.NumChoices = override.NumChoices
	}
	if override.PointsTitle != nil {
		out.PointsTitle = override.PointsTitle
	}
	if override.PointsArtist != nil {
		out.PointsArtist = override.PointsArtist
	}
	if override.PenaltyEnabled != nil {
		out.PenaltyEnabled = override.PenaltyEnabled
	}
	if override.PenaltyAmount != nil {
		out.PenaltyAmount = override.PenaltyAmount
	}
	if override.AllowRebuzz != nil {
		out.AllowRebuzz = override.AllowRebuzz
	}
	if override.ManualValidation != nil {
		out.ManualValidation = override.ManualValidation
	}
	if override.FuzzyMatch != nil {
		out.FuzzyMatch = override.FuzzyMatch
	}
	if override.LevenshteinDistance != nil {
		out.LevenshteinDistance = override.LevenshteinDistance
	}
	return out
}

// SystemDefaults returns the glossary's hard-coded defaults. Deployments
// may override these via configuration (§6.4); the resolved values feed in
// as the "systemDefaults" layer of Resolve.
func SystemDefaults() model.ModeParams {
	return model.ModeParams{
		SongDuration:        intp(30),
		AnswerTimer:         intp(5),
		NumChoices:          intp(4),
		PointsTitle:         intp(1),
		PointsArtist:        intp(1),
		PenaltyEnabled:      boolp(false),
		PenaltyAmount:       intp(0),
		AllowRebuzz:         boolp(true),
		ManualValidation:    boolp(false),
		FuzzyMatch:          boolp(true),
		LevenshteinDistance: intp(2),
	}
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

// Accessors below give every caller a non-pointer, always-resolved value;
// they assume p has already been passed through Resolve against
// SystemDefaults so every field is non-nil.

func SongDuration(p model.ModeParams) int { return *p.SongDuration }
func AnswerTimer(p model.ModeParams) int  { return *p.AnswerTimer }
func NumChoices(p model.ModeParams) int   { return *p.NumChoices }
func PointsTitle(p model.ModeParams) int  { return *p.PointsTitle }
func PointsArtist(p model.ModeParams) int { return *p.PointsArtist }
func PenaltyEnabled(p model.ModeParams) bool { return *p.PenaltyEnabled }
func PenaltyAmount(p model.ModeParams) int   { return *p.PenaltyAmount }
func AllowRebuzz(p model.ModeParams) bool    { return *p.AllowRebuzz }
func ManualValidation(p model.ModeParams) bool { return *p.ManualValidation }
func FuzzyMatch(p model.ModeParams) bool       { return *p.FuzzyMatch }
func LevenshteinDistance(p model.ModeParams) int { return *p.LevenshteinDistance }
