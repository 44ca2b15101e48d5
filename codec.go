package cloak

import (
	"encoding/json"
	"strings"
)

// Codec provides content-type aware marshaling of request and response
// bodies. Implementations for YAML, XML, MessagePack and BSON live in the
// subpackages of this module.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Aliased is implemented by codecs that serve more than one media type,
// such as application/x-yaml next to application/yaml.
type Aliased interface {
	Aliases() []string
}

// jsonCodec is the built-in default codec.
type jsonCodec struct{}

// JSON returns the built-in JSON codec.
func JSON() Codec {
	return &jsonCodec{}
}

func (c *jsonCodec) ContentType() string {
	return contentTypeJSON
}

func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// codecSet resolves a codec from a Content-Type header value.
type codecSet map[string]Codec

func newCodecSet(extra []Codec) codecSet {
	set := codecSet{contentTypeJSON: JSON()}
	for _, c := range extra {
		if c == nil {
			continue
		}
		set[mediaType(c.ContentType())] = c
		if a, ok := c.(Aliased); ok {
			for _, alias := range a.Aliases() {
				set[mediaType(alias)] = c
			}
		}
	}
	return set
}

// lookup falls back to JSON for unknown or structured-suffix types such as
// application/problem+json.
func (s codecSet) lookup(contentType string) Codec {
	mt := mediaType(contentType)
	if c, ok := s[mt]; ok {
		return c
	}
	if _, suffix, ok := strings.Cut(mt, "+"); ok {
		if c, ok := s["application/"+suffix]; ok {
			return c
		}
	}
	return s[contentTypeJSON]
}
