package models

// Emotion is a closed-set classification label describing a detected facial
// affect. Values outside the set degrade to [DefaultEmotion] via
// [ParseEmotion], never to an error.
type Emotion string

const (
	EmotionHappy     Emotion = "HAPPY"
	EmotionSad       Emotion = "SAD"
	EmotionAngry     Emotion = "ANGRY"
	EmotionConfused  Emotion = "CONFUSED"
	EmotionDisgusted Emotion = "DISGUSTED"
	EmotionSurprised Emotion = "SURPRISED"
	EmotionCalm      Emotion = "CALM"
	EmotionFear      Emotion = "FEAR"
)

// DefaultEmotion is the documented fallback for unrecognized labels.
const DefaultEmotion = EmotionCalm

// Emotions lists every member of the closed set in presentation order.
func Emotions() []Emotion {
	return []Emotion{
		EmotionHappy, EmotionSad, EmotionAngry, EmotionConfused,
		EmotionDisgusted, EmotionSurprised, EmotionCalm, EmotionFear,
	}
}

// ParseEmotion maps a raw label onto the closed set, degrading unknown values
// to [DefaultEmotion].
func ParseEmotion(raw string) Emotion {
	e := Emotion(normalizeLabel(raw))
	if _, ok := musicParameterTable[e]; ok {
		return e
	}
	return DefaultEmotion
}

func normalizeLabel(raw string) string {
	b := []byte(raw)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}

// Mode is the musical mode component of [MusicParameters].
type Mode string

const (
	ModeMajor Mode = "MAJOR"
	ModeMinor Mode = "MINOR"
)

// MusicParameters are the target acoustic attributes used to query the track
// catalog. Derived deterministically from an [Emotion]; never mutated after
// creation.
type MusicParameters struct {
	Valence float64 `json:"valence"` // 0..1
	Energy  float64 `json:"energy"`  // 0..1
	Tempo   int     `json:"tempo"`   // BPM
	Mode    Mode    `json:"mode"`
}

// ParameterBands are the tolerance windows derived from [MusicParameters]
// for a catalog query. Catalogs rarely return exact matches, so queries are
// constrained with ranges rather than equality.
type ParameterBands struct {
	MinValence float64
	MaxValence float64
	MinEnergy  float64
	MaxEnergy  float64
	MinTempo   int
	MaxTempo   int
}

const (
	valenceTolerance = 0.25
	energyTolerance  = 0.25
	tempoTolerance   = 30
)

// Bands widens the parameters into query tolerance windows, clamping the
// unit-interval attributes to [0,1].
func (p MusicParameters) Bands() ParameterBands {
	return ParameterBands{
		MinValence: clamp01(p.Valence - valenceTolerance),
		MaxValence: clamp01(p.Valence + valenceTolerance),
		MinEnergy:  clamp01(p.Energy - energyTolerance),
		MaxEnergy:  clamp01(p.Energy + energyTolerance),
		MinTempo:   max(p.Tempo-tempoTolerance, 1),
		MaxTempo:   p.Tempo + tempoTolerance,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// musicParameterTable is the semantic heart of the recommendation feature:
// an explicit, total mapping from each emotion to its target acoustics.
var musicParameterTable = map[Emotion]MusicParameters{
	EmotionHappy:     {Valence: 0.85, Energy: 0.75, Tempo: 120, Mode: ModeMajor},
	EmotionSad:       {Valence: 0.20, Energy: 0.30, Tempo: 75, Mode: ModeMinor},
	EmotionAngry:     {Valence: 0.30, Energy: 0.90, Tempo: 140, Mode: ModeMinor},
	EmotionConfused:  {Valence: 0.50, Energy: 0.55, Tempo: 105, Mode: ModeMinor},
	EmotionDisgusted: {Valence: 0.35, Energy: 0.70, Tempo: 110, Mode: ModeMinor},
	EmotionSurprised: {Valence: 0.70, Energy: 0.75, Tempo: 130, Mode: ModeMajor},
	EmotionCalm:      {Valence: 0.60, Energy: 0.25, Tempo: 90, Mode: ModeMajor},
	EmotionFear:      {Valence: 0.30, Energy: 0.50, Tempo: 90, Mode: ModeMinor},
}

// defaultParameters is the single documented fallback row; unreachable for
// values produced by [ParseEmotion] but kept total on the type.
var defaultParameters = MusicParameters{Valence: 0.5, Energy: 0.5, Tempo: 100, Mode: ModeMajor}

// ParametersFor returns the target acoustic attributes for an emotion.
// Pure and deterministic over the closed set.
func ParametersFor(e Emotion) MusicParameters {
	if p, ok := musicParameterTable[e]; ok {
		return p
	}
	return defaultParameters
}

// Presentation tables. Each is exhaustively keyed over the closed set with a
// single default case exposed through its accessor.

var emotionLabels = map[Emotion]string{
	EmotionHappy:     "Happy",
	EmotionSad:       "Sad",
	EmotionAngry:     "Angry",
	EmotionConfused:  "Confused",
	EmotionDisgusted: "Disgusted",
	EmotionSurprised: "Surprised",
	EmotionCalm:      "Calm",
	EmotionFear:      "Fearful",
}

var emotionEmojis = map[Emotion]string{
	EmotionHappy:     "😊",
	EmotionSad:       "😢",
	EmotionAngry:     "😠",
	EmotionConfused:  "😕",
	EmotionDisgusted: "🤢",
	EmotionSurprised: "😮",
	EmotionCalm:      "😌",
	EmotionFear:      "😨",
}

var emotionColors = map[Emotion]string{
	EmotionHappy:     "#10b981",
	EmotionSad:       "#3b82f6",
	EmotionAngry:     "#ef4444",
	EmotionConfused:  "#f59e0b",
	EmotionDisgusted: "#8b5cf6",
	EmotionSurprised: "#ec4899",
	EmotionCalm:      "#14b8a6",
	EmotionFear:      "#6366f1",
}

// Label returns the human-readable name for the emotion.
func (e Emotion) Label() string {
	if l, ok := emotionLabels[e]; ok {
		return l
	}
	return string(e)
}

// Emoji returns the display emoji for the emotion.
func (e Emotion) Emoji() string {
	if em, ok := emotionEmojis[e]; ok {
		return em
	}
	return "😐"
}

// Color returns the hex display color for the emotion.
func (e Emotion) Color() string {
	if c, ok := emotionColors[e]; ok {
		return c
	}
	return "#6b7280"
}
