package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/shared"
	"github.com/moodtune/moodtune/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EmotionListView ViewState = iota
	TrackListView
	SaveView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	engine    tasks.RecommendationEngine
	assembler *tasks.PlaylistAssembler
	player    *Player
	limit     int

	width  int
	height int

	emotionList list.Model
	trackList   list.Model

	set         *models.RecommendationSet
	requestID   int
	cancelFetch context.CancelFunc
	fetching    bool

	nameInput textinput.Model
	saved     *models.Playlist
	status    string
	err       error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
// player may be nil when no preview command is configured.
func NewModel(ctx context.Context, engine tasks.RecommendationEngine, assembler *tasks.PlaylistAssembler, player *Player, limit int) *Model {
	if limit <= 0 {
		limit = tasks.DefaultTrackLimit
	}

	emotions := models.Emotions()
	items := make([]list.Item, len(emotions))
	for i, e := range emotions {
		items[i] = emotionItem{emotion: e}
	}
	emotionList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	emotionList.Title = "How are you feeling?"

	nameInput := textinput.New()
	nameInput.Placeholder = "Playlist name"
	nameInput.CharLimit = tasks.MaxPlaylistNameLength

	return &Model{
		ctx:         ctx,
		view:        EmotionListView,
		engine:      engine,
		assembler:   assembler,
		player:      player,
		limit:       limit,
		emotionList: emotionList,
		nameInput:   nameInput,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init implements tea.Model. The emotion list is static, so no initial
// command is needed.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.emotionList.SetSize(msg.Width-4, msg.Height-8)
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case EmotionListView:
			return m.handleEmotionListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case SaveView:
			return m.handleSaveKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case recommendationsMsg:
		// Results from a superseded fetch arrive with a stale id.
		if msg.requestID != m.requestID {
			return m, nil
		}
		m.fetching = false
		if msg.err != nil {
			if shared.IsCancelled(msg.err) {
				return m, nil
			}
			m.err = msg.err
			return m, nil
		}
		m.set = msg.set
		items := make([]list.Item, len(msg.set.Tracks))
		for i, track := range msg.set.Tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("%s %s tracks", msg.set.Emotion.Emoji(), msg.set.Emotion.Label())
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case playlistSavedMsg:
		m.saved = msg.playlist
		m.err = msg.err
		m.view = ResultView
		return m, nil

	case previewMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("preview failed: %v", msg.err)
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back, q to quit", m.err))
	}

	switch m.view {
	case EmotionListView:
		return m.renderEmotionList()
	case TrackListView:
		return m.renderTrackList()
	case SaveView:
		return m.renderSave()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleEmotionListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, m.quit()
		case "esc":
			m.err = nil
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quit()
	case "enter":
		selected := m.emotionList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(emotionItem); ok {
				return m, m.startFetch(item.emotion)
			}
		}
	}

	var cmd tea.Cmd
	m.emotionList, cmd = m.emotionList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quit()
	case "esc":
		m.stopPreview()
		m.status = ""
		m.view = EmotionListView
		return m, nil
	case "p":
		selected := m.trackList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(trackItem); ok {
				return m, m.togglePreview(item.track)
			}
		}
		return m, nil
	case "o":
		selected := m.trackList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(trackItem); ok {
				m.openTrack(item.track)
			}
		}
		return m, nil
	case "s":
		if m.set == nil || len(m.set.Tracks) == 0 {
			m.status = "nothing to save"
			return m, nil
		}
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		m.view = SaveView
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleSaveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, m.quit()
	case "esc":
		m.nameInput.Blur()
		m.status = ""
		m.view = TrackListView
		return m, nil
	case "enter":
		draft, err := m.assembler.Assemble(m.nameInput.Value(), m.set, "", "")
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.nameInput.Blur()
		return m, m.savePlaylist(draft)
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quit()
	case "r":
		m.stopPreview()
		m.view = EmotionListView
		m.set = nil
		m.saved = nil
		m.status = ""
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case EmotionListView:
		m.emotionList, cmd = m.emotionList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	case SaveView:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

// startFetch cancels any in-flight fetch and starts a new one. The request id
// keyed into the result message lets Update drop superseded responses.
func (m *Model) startFetch(emotion models.Emotion) tea.Cmd {
	if m.cancelFetch != nil {
		m.cancelFetch()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelFetch = cancel
	m.requestID++
	m.fetching = true

	requestID := m.requestID
	return func() tea.Msg {
		set, err := m.engine.Recommend(ctx, nil, emotion, m.limit)
		return recommendationsMsg{requestID: requestID, set: set, err: err}
	}
}

func (m *Model) savePlaylist(draft *models.PlaylistDraft) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.assembler.Save(m.ctx, draft)
		return playlistSavedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) togglePreview(track models.Track) tea.Cmd {
	if m.player == nil {
		m.status = "no preview player configured"
		return nil
	}
	if track.PreviewURL == "" {
		m.status = fmt.Sprintf("%s has no preview", track.Name)
		return nil
	}
	m.status = ""
	return func() tea.Msg {
		return previewMsg{err: m.player.Toggle(track.PreviewURL)}
	}
}

func (m *Model) openTrack(track models.Track) {
	if track.ExternalURL == "" {
		m.status = fmt.Sprintf("%s has no external link", track.Name)
		return
	}
	if err := shared.OpenBrowser(track.ExternalURL); err != nil {
		m.status = fmt.Sprintf("open failed: %v", err)
		return
	}
	m.status = ""
}

func (m *Model) stopPreview() {
	if m.player != nil {
		m.player.Stop()
	}
}

func (m *Model) quit() tea.Cmd {
	m.stopPreview()
	if m.cancelFetch != nil {
		m.cancelFetch()
	}
	return tea.Quit
}

func (m *Model) renderEmotionList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	body := m.emotionList.View()
	if m.fetching {
		body = fmt.Sprintf("%s\n\n%s", body, styles.warn.Render("Fetching recommendations..."))
	}
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.play, m.keys.open, m.keys.save, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	status := ""
	if m.status != "" {
		status = fmt.Sprintf("\n%s", styles.warn.Render(m.status))
	} else if m.player != nil {
		if url, ok := m.player.Playing(); ok {
			status = fmt.Sprintf("\n%s", styles.ok.Render(fmt.Sprintf("▶ playing %s", url)))
		}
	}

	return fmt.Sprintf("%s%s\n\n%s", m.trackList.View(), status, helpView)
}

func (m *Model) renderSave() string {
	title := styles.title.Render("Save playlist")
	info := fmt.Sprintf("%d tracks for %s\n", len(m.set.Tracks), emotionStyle(m.set.Emotion).Render(m.set.Emotion.Label()))

	status := ""
	if m.status != "" {
		status = fmt.Sprintf("\n%s", styles.warn.Render(m.status))
	}

	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		m.keys.back,
	})

	return fmt.Sprintf("%s\n%s\n%s%s\n\n%s", title, info, m.nameInput.View(), status, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Save failed: %v\n\nPress r to start over, q to quit", m.err))
	}

	if m.saved == nil {
		return styles.err.Render("No result available\n\nPress r to start over, q to quit")
	}

	title := styles.ok.Render("✓ Playlist saved!")
	info := fmt.Sprintf(
		"\nName: %s\nEmotion: %s\nTracks: %d\n",
		m.saved.Name,
		m.saved.Emotion.Label(),
		len(m.saved.Tracks),
	)

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n%s", title, info, helpView)
}
