// Package bson provides a BSON body codec.
package bson

import (
	"reflect"
	"sort"

	"github.com/zoobzio/cloak"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements cloak.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() cloak.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document. String-keyed maps, including
// qs.Map payloads, are written with their keys in sorted order.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	if doc, ok := orderedDocument(v); ok {
		return bson.Marshal(doc)
	}
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

func orderedDocument(v any) (bson.D, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()})
	}
	return doc, true
}
