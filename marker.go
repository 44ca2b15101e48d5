package cloak

import "net/http"

// HeaderMarker is the request header carrying the encryption marker.
const HeaderMarker = "Z"

// CleartextTag is the marker value of requests that bypassed encryption.
const CleartextTag = "cleartext"

// Marker classifies a request by its marker header.
type Marker int

const (
	MarkerCleartext Marker = iota
	MarkerEncrypted
)

func (m Marker) String() string {
	if m == MarkerCleartext {
		return "cleartext"
	}
	return "encrypted"
}

// MarkerOf reads the marker from request headers. Anything other than the
// cleartext tag, including a missing header, counts as encrypted.
func MarkerOf(h http.Header) Marker {
	if h.Get(HeaderMarker) == CleartextTag {
		return MarkerCleartext
	}
	return MarkerEncrypted
}
