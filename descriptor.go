package cloak

import "net/http"

// ResponseType declares how the caller expects the response body.
type ResponseType string

const (
	ResponseJSON        ResponseType = "json"
	ResponseText        ResponseType = "text"
	ResponseBlob        ResponseType = "blob"
	ResponseArrayBuffer ResponseType = "arraybuffer"
	ResponseStream      ResponseType = "stream"
)

// IsBinary reports whether bodies of this type are never decrypted.
func (t ResponseType) IsBinary() bool {
	switch t {
	case ResponseBlob, ResponseArrayBuffer, ResponseStream:
		return true
	}
	return false
}

// RawQuery is an already-encoded query string. The request transformer
// stores encrypted params as a RawQuery; HTTP layers attach it to the URL
// verbatim.
type RawQuery string

// Request describes one outbound request. It is owned by the calling HTTP
// client for the lifetime of the request and mutated in place by
// TransformRequest.
type Request struct {
	URL          string
	Data         any
	Params       any
	Headers      http.Header
	ResponseType ResponseType
}

// Response describes one inbound response, mutated in place by
// TransformResponse.
type Response struct {
	Config  *Request
	Data    any
	Status  int
	Headers http.Header
}
