// Package models defines the data model for the moodtune client: the closed
// emotion set with its derived lookup tables, catalog track and playlist
// records, and the single client session.
package models
