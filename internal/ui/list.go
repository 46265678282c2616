package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/shared"
)

var (
	_ list.Item = emotionItem{}
	_ list.Item = trackItem{}
)

// emotionItem wraps [models.Emotion] to implement [list.Item].
type emotionItem struct {
	emotion models.Emotion
}

func (i emotionItem) FilterValue() string { return i.emotion.Label() }
func (i emotionItem) Title() string {
	return fmt.Sprintf("%s %s", i.emotion.Emoji(), i.emotion.Label())
}
func (i emotionItem) Description() string {
	params := models.ParametersFor(i.emotion)
	return fmt.Sprintf("valence %.2f • energy %.2f • %d BPM • %s", params.Valence, params.Energy, params.Tempo, strings.ToLower(string(params.Mode)))
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := strings.Join(i.track.Artists, ", ")
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.DurationMS))
	if i.track.PreviewURL == "" {
		desc = fmt.Sprintf("%s • no preview", desc)
	}
	return desc
}
