// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow from emotion to saved playlist:
//  1. [EmotionListView] : Pick an emotion from the supported set
//  2. [TrackListView] : Browse recommended tracks, play previews
//  3. [SaveView] : Name the playlist before saving
//  4. [ResultView] : Display the save outcome
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving typed messages from async commands.
// Recommendation fetches carry a request id; switching emotions cancels the in-flight fetch and stale or cancelled results are dropped silently.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, p, s, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
