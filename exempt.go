package cloak

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

const (
	contentTypeMultipart = "multipart/form-data"
	contentTypeJSON      = "application/json"
	contentTypeForm      = "application/x-www-form-urlencoded;charset=utf-8"
	mediaTypeForm        = "application/x-www-form-urlencoded"
)

// DefaultExemption returns the default exemption policy. A request bypasses
// encryption when any of these hold:
//
//   - isDev reports true
//   - Data or Params is a multipart form or a binary stream
//   - the declared Content-Type is multipart/form-data
//   - the declared ResponseType is blob
func DefaultExemption(isDev func() bool) func(*Request) bool {
	return func(req *Request) bool {
		return isDev() ||
			isFormData(req.Data) ||
			isFormData(req.Params) ||
			isMultipart(req.Headers) ||
			req.ResponseType == ResponseBlob
	}
}

// isFormData reports whether v is a multipart form or a binary stream.
func isFormData(v any) bool {
	switch v.(type) {
	case *multipart.Form, multipart.Form, *multipart.Writer, io.Reader:
		return true
	}
	return false
}

func isMultipart(h http.Header) bool {
	return mediaType(h.Get("Content-Type")) == contentTypeMultipart
}

// mediaType returns the lower-cased media type without parameters.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(mt))
	}
	return mt
}
