package modes

// PictureRoundMode reuses the buzz-and-choice rules verbatim, over picture
// media (spec §4.4: "reserved for when media type is picture").
type PictureRoundMode struct{ BuzzAndChoiceMode }

func NewPictureRound() *PictureRoundMode { return &PictureRoundMode{} }

func (m *PictureRoundMode) Name() string { return PictureRound }
