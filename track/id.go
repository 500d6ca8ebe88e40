// Package track implements the mixer graph node: a Track holds its own
// volume/panning, an ordered effect chain, and a set of output routes.
package track

import "github.com/wrenfold/resonance/arena"

// Id identifies a track, either the implicit main sink or a sub-track
// allocated from the registry.
type Id struct {
	main bool
	key  arena.Key
}

// Main is the single implicit sink every route eventually resolves to.
var Main = Id{main: true}

// SubTrack wraps an arena key as a sub-track Id.
func SubTrack(key arena.Key) Id {
	return Id{key: key}
}

// IsMain reports whether this id refers to the main track.
func (id Id) IsMain() bool {
	return id.main
}

// Key returns the underlying arena key. Only meaningful when !IsMain().
func (id Id) Key() arena.Key {
	return id.key
}
