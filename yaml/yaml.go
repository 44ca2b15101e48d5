// Package yaml provides a YAML body codec.
package yaml

import (
	"bytes"

	"github.com/zoobzio/cloak"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements cloak.Codec for YAML.
type yamlCodec struct {
	indent int
}

// New returns a YAML codec indenting with two spaces.
func New() cloak.Codec {
	return &yamlCodec{indent: 2}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Aliases returns the legacy YAML media types.
func (c *yamlCodec) Aliases() []string {
	return []string{"application/x-yaml", "text/yaml"}
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
