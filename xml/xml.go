// Package xml provides an XML body codec.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"reflect"
	"sort"

	"github.com/zoobzio/cloak"
)

// RootElement wraps map payloads, which encoding/xml cannot marshal alone.
const RootElement = "payload"

// xmlCodec implements cloak.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() cloak.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Aliases returns the text XML media type.
func (c *xmlCodec) Aliases() []string {
	return []string{"text/xml"}
}

// Marshal encodes v as XML. String-keyed maps such as qs.Map are written
// under a <payload> root with one child element per key in sorted order;
// sequences repeat the element and one-level nested maps become nested
// elements.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	rv := elem(reflect.ValueOf(v))
	if !isStringMap(rv) {
		return xml.Marshal(v)
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := encodeMap(enc, RootElement, rv); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

func encodeMap(enc *xml.Encoder, name string, rv reflect.Value) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	for _, k := range keys {
		val := elem(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())))
		if err := encodeValue(enc, k, val); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeValue(enc *xml.Encoder, name string, rv reflect.Value) error {
	switch {
	case !rv.IsValid():
		return encodeText(enc, name, "")
	case isStringMap(rv):
		return encodeMap(enc, name, rv)
	case (rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8) || rv.Kind() == reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := encodeValue(enc, name, elem(rv.Index(i))); err != nil {
				return err
			}
		}
		return nil
	case rv.Kind() == reflect.Struct:
		return enc.EncodeElement(rv.Interface(), xml.StartElement{Name: xml.Name{Local: name}})
	}

	if b, ok := rv.Interface().([]byte); ok {
		return encodeText(enc, name, string(b))
	}
	return encodeText(enc, name, fmt.Sprint(rv.Interface()))
}

func encodeText(enc *xml.Encoder, name, text string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func isStringMap(rv reflect.Value) bool {
	rv = elem(rv)
	return rv.IsValid() && rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// elem unwraps interfaces and pointers.
func elem(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
