package models

import "testing"

func TestParseEmotion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Emotion
	}{
		{name: "uppercase member", raw: "HAPPY", want: EmotionHappy},
		{name: "lowercase member", raw: "sad", want: EmotionSad},
		{name: "mixed case member", raw: "AnGrY", want: EmotionAngry},
		{name: "unknown label degrades", raw: "ECSTATIC", want: DefaultEmotion},
		{name: "empty degrades", raw: "", want: DefaultEmotion},
		{name: "whitespace degrades", raw: "  happy  ", want: DefaultEmotion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseEmotion(tt.raw); got != tt.want {
				t.Errorf("ParseEmotion(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParametersForCoversEverySentiment(t *testing.T) {
	for _, e := range Emotions() {
		p := ParametersFor(e)

		if p.Valence < 0 || p.Valence > 1 {
			t.Errorf("%s: valence %v outside [0,1]", e, p.Valence)
		}
		if p.Energy < 0 || p.Energy > 1 {
			t.Errorf("%s: energy %v outside [0,1]", e, p.Energy)
		}
		if p.Tempo <= 0 {
			t.Errorf("%s: tempo %d not positive", e, p.Tempo)
		}
		if p.Mode != ModeMajor && p.Mode != ModeMinor {
			t.Errorf("%s: mode %q not a musical mode", e, p.Mode)
		}
	}
}

func TestParametersForIsDeterministic(t *testing.T) {
	first := ParametersFor(EmotionHappy)
	second := ParametersFor(EmotionHappy)

	if first != second {
		t.Errorf("ParametersFor(Happy) varied between calls: %+v vs %+v", first, second)
	}
}

func TestParametersForUnknownFallsBack(t *testing.T) {
	p := ParametersFor(Emotion("BORED"))

	want := MusicParameters{Valence: 0.5, Energy: 0.5, Tempo: 100, Mode: ModeMajor}
	if p != want {
		t.Errorf("ParametersFor(unknown) = %+v, want %+v", p, want)
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		name   string
		params MusicParameters
		want   ParameterBands
	}{
		{
			name:   "midrange stays unclamped",
			params: MusicParameters{Valence: 0.5, Energy: 0.5, Tempo: 100},
			want: ParameterBands{
				MinValence: 0.25, MaxValence: 0.75,
				MinEnergy: 0.25, MaxEnergy: 0.75,
				MinTempo: 70, MaxTempo: 130,
			},
		},
		{
			name:   "high valence clamps upper bound",
			params: MusicParameters{Valence: 0.85, Energy: 0.75, Tempo: 120},
			want: ParameterBands{
				MinValence: 0.6, MaxValence: 1,
				MinEnergy: 0.5, MaxEnergy: 1,
				MinTempo: 90, MaxTempo: 150,
			},
		},
		{
			name:   "low values clamp lower bound",
			params: MusicParameters{Valence: 0.1, Energy: 0.1, Tempo: 20},
			want: ParameterBands{
				MinValence: 0, MaxValence: 0.35,
				MinEnergy: 0, MaxEnergy: 0.35,
				MinTempo: 1, MaxTempo: 50,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.params.Bands()
			if !bandsClose(got, tt.want) {
				t.Errorf("Bands() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func bandsClose(a, b ParameterBands) bool {
	const eps = 1e-9
	near := func(x, y float64) bool {
		d := x - y
		return d < eps && d > -eps
	}
	return near(a.MinValence, b.MinValence) && near(a.MaxValence, b.MaxValence) &&
		near(a.MinEnergy, b.MinEnergy) && near(a.MaxEnergy, b.MaxEnergy) &&
		a.MinTempo == b.MinTempo && a.MaxTempo == b.MaxTempo
}

func TestPresentationAccessors(t *testing.T) {
	for _, e := range Emotions() {
		if e.Label() == "" || e.Label() == string(e) {
			t.Errorf("%s: missing presentation label", e)
		}
		if e.Emoji() == "" {
			t.Errorf("%s: missing emoji", e)
		}
		if len(e.Color()) != 7 || e.Color()[0] != '#' {
			t.Errorf("%s: color %q is not a hex value", e, e.Color())
		}
	}

	unknown := Emotion("BORED")
	if unknown.Label() != "BORED" {
		t.Errorf("unknown Label() = %q, want raw value", unknown.Label())
	}
	if unknown.Emoji() != "😐" {
		t.Errorf("unknown Emoji() = %q", unknown.Emoji())
	}
	if unknown.Color() != "#6b7280" {
		t.Errorf("unknown Color() = %q", unknown.Color())
	}
}
