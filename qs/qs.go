// Package qs converts between structured payloads and query strings.
//
// Three key shapes are understood:
//
//	name=value          scalar, last write wins
//	ids[]=1&ids[]=2     ordered sequence
//	user[name]=Alice    one-level nested mapping
//
// Stringify emits exactly these shapes, so Parse(Stringify(m)) reconstructs
// m for scalars, sequences and one-level mappings. Ordering of the encoded
// pairs may differ from the order of the input string. A scalar whose key
// already ends in "[]" or "[sub]" is read back in that shape, not as a
// scalar.
//
// Neither Parse nor Stringify returns an error. Malformed fragments are
// parsed on a best-effort basis: empty keys are dropped and invalid percent
// escapes are kept verbatim.
package qs

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// Map is a structured payload. Values are a string, a []string sequence or a
// map[string]string nested mapping when produced by Parse; Stringify also
// accepts any scalar, slice, string-keyed map or struct.
type Map map[string]any

// Get returns the scalar stored under key, or "" when absent or not a scalar.
func (m Map) Get(key string) string {
	s, _ := m[key].(string)
	return s
}

// Parse decodes a query string. A single leading '?' or '#' is stripped.
// Parse never fails; empty input yields an empty, non-nil Map.
func Parse(s string) Map {
	m := Map{}
	if s == "" {
		return m
	}
	if s[0] == '?' || s[0] == '#' {
		s = s[1:]
	}

	for _, pair := range strings.Split(s, "&") {
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		if rawKey == "" {
			continue
		}
		m.add(unescape(rawKey), unescape(rawValue))
	}
	return m
}

// add stores one decoded pair according to the shape of its key.
func (m Map) add(key, value string) {
	switch {
	case strings.HasSuffix(key, "[]"):
		name := key[:len(key)-2]
		if name == "" {
			return
		}
		seq, _ := m[name].([]string)
		m[name] = append(seq, value)

	case strings.HasSuffix(key, "]") && strings.Contains(key, "["):
		i := strings.IndexByte(key, '[')
		name, sub := key[:i], key[i+1:len(key)-1]
		if name == "" {
			return
		}
		nested, ok := m[name].(map[string]string)
		if !ok {
			nested = make(map[string]string)
			m[name] = nested
		}
		nested[sub] = value

	default:
		m[key] = value
	}
}

// Stringify encodes v as a query string. Top-level keys and nested sub-keys
// are emitted in sorted order. Sequences use the "key[]" form and nested
// mappings the "main[sub]" form. A nil or empty input yields "".
func Stringify(v any) string {
	m := toMap(v)
	if len(m) == 0 {
		return ""
	}

	var b strings.Builder
	write := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(Escape(value))
	}

	for _, key := range sortedKeys(m) {
		name := Escape(key)
		rv := indirect(reflect.ValueOf(m[key]))

		switch shapeOf(rv) {
		case shapeSequence:
			for i := 0; i < rv.Len(); i++ {
				write(name+"[]", scalarString(rv.Index(i)))
			}
		case shapeMapping:
			nested := nestedMap(rv)
			for _, sub := range sortedKeys(nested) {
				write(name+"["+Escape(sub)+"]", nested[sub])
			}
		default:
			write(name, scalarString(rv))
		}
	}
	return b.String()
}

// Escape percent-encodes s the way encodeURIComponent does for the
// characters that matter on the wire: spaces become %20, never '+'.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// unescape decodes %XX sequences, leaving '+' untouched. Invalid escapes
// return s unchanged.
func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

type shape int

const (
	shapeScalar shape = iota
	shapeSequence
	shapeMapping
)

func shapeOf(rv reflect.Value) shape {
	if !rv.IsValid() {
		return shapeScalar
	}
	if _, ok := rv.Interface().(fmt.Stringer); ok {
		return shapeScalar
	}
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return shapeScalar
		}
		return shapeSequence
	case reflect.Array:
		return shapeSequence
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return shapeMapping
		}
	case reflect.Struct:
		return shapeMapping
	}
	return shapeScalar
}

// toMap normalises the accepted top-level inputs into a Map.
func toMap(v any) Map {
	switch t := v.(type) {
	case nil:
		return nil
	case Marshaler:
		m, err := t.MarshalQuery()
		if err != nil {
			return nil
		}
		return m
	case Map:
		return t
	case map[string]any:
		return Map(t)
	case url.Values:
		return fromValues(t)
	case map[string][]string:
		return fromValues(t)
	}

	rv := indirect(reflect.ValueOf(v))
	switch shapeOf(rv) {
	case shapeMapping:
		if rv.Kind() == reflect.Struct {
			return structMap(rv)
		}
		m := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return m
	}
	return nil
}

// fromValues maps single values to scalars and repeated values to sequences.
func fromValues(values map[string][]string) Map {
	m := make(Map, len(values))
	for k, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			m[k] = vs[0]
		default:
			m[k] = vs
		}
	}
	return m
}

// nestedMap flattens a one-level mapping into string values.
func nestedMap(rv reflect.Value) map[string]string {
	if rv.Kind() == reflect.Struct {
		fields := structMap(rv)
		out := make(map[string]string, len(fields))
		for k, v := range fields {
			out[k] = scalarString(indirect(reflect.ValueOf(v)))
		}
		return out
	}
	out := make(map[string]string, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = scalarString(indirect(iter.Value()))
	}
	return out
}

// scalarString coerces a value to its string representation.
func scalarString(rv reflect.Value) string {
	rv = indirect(rv)
	if !rv.IsValid() {
		return ""
	}
	switch v := rv.Interface().(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(rv.Interface())
}

// indirect unwraps interfaces and pointers. Nil yields the zero Value.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		if rv.Kind() == reflect.Pointer {
			if _, ok := rv.Interface().(fmt.Stringer); ok {
				return rv
			}
		}
		rv = rv.Elem()
	}
	return rv
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
