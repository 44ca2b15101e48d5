package qs

// Marshaler lets a type supply its own query representation, bypassing
// reflection in Stringify.
//
// A Marshaler that returns an error encodes as the empty string; Stringify
// keeps its never-fails contract regardless of the implementation.
type Marshaler interface {
	MarshalQuery() (Map, error)
}
