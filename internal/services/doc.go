// Package services contains thin HTTP clients for the moodtune backend: auth
// and session endpoints, the emotion classifier, the music catalog, and the
// history store.
//
// All transport and status failures are translated exactly once, in
// [Client.do], into the shared error taxonomy; nothing downstream inspects
// raw response shapes.
package services
