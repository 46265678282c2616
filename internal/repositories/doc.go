// Package repositories provides SQLite persistence for the client's local
// state: the single session row and the per-emotion recommendation cache.
// Server-side records (playlists, analyses) live in the history backend and
// are never mirrored here.
package repositories
