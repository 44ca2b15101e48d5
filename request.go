package cloak

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/cloak/qs"
)

// Parts of a request named in TransformError.Field.
const (
	fieldData   = "data"
	fieldParams = "params"
	fieldQuery  = "query"
)

const (
	opEncrypt = "encrypt"
	opDecrypt = "decrypt"
	opMarshal = "marshal"
)

// TransformRequest rewrites req in place and returns it.
//
// Exempt requests are only marked cleartext. Otherwise the marker header is
// set and, in order, the body is serialized and encrypted, the params are
// query-encoded and encrypted into a RawQuery, and the URL is rewritten:
// a literal query string is encrypted as a whole, or else every sensitive
// path segment is encrypted individually.
//
// The cipher is invoked exactly once per eligible part. The first cipher or
// codec failure is returned as is; nothing is retried and nothing falls back
// to cleartext.
func (p *Pipeline) TransformRequest(ctx context.Context, req *Request) (*Request, error) {
	start := time.Now()
	if req.Headers == nil {
		req.Headers = make(http.Header)
	}

	if p.notEncrypted(req) {
		req.Headers.Set(HeaderMarker, CleartextTag)
		emitRequestExempt(ctx, p.classifier.Redact(req.URL))
		return req, nil
	}

	marker := p.markerValue()
	req.Headers.Set(HeaderMarker, marker)

	fields, err := p.encryptParts(req)
	emitRequestEncrypted(ctx, p.classifier.Redact(req.URL), marker, fields, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// encryptParts encrypts body, params and URL, returning the number of
// cipher invocations.
func (p *Pipeline) encryptParts(req *Request) (int, error) {
	fields := 0

	if present(req.Data) {
		setContentType(req.Data, req.Headers)
		body, err := p.serialize(req.Data, req.Headers.Get("Content-Type"))
		if err != nil {
			return fields, newTransformError(ErrMarshal, opMarshal, fieldData, err)
		}
		ciphertext, err := p.encrypt(body)
		if err != nil {
			return fields, newTransformError(ErrEncrypt, opEncrypt, fieldData, err)
		}
		req.Data = ciphertext
		fields++
	}

	if present(req.Params) {
		ciphertext, err := p.encrypt(encodeParams(req.Params))
		if err != nil {
			return fields, newTransformError(ErrEncrypt, opEncrypt, fieldParams, err)
		}
		req.Params = RawQuery(ciphertext)
		fields++
	}

	path, query, hasQuery := strings.Cut(req.URL, "?")
	if query != "" {
		ciphertext, err := p.encrypt(query)
		if err != nil {
			return fields, newTransformError(ErrEncrypt, opEncrypt, fieldQuery, err)
		}
		req.URL = path + "?" + ciphertext
		return fields + 1, nil
	}

	origin, path := splitOrigin(path)
	segments := strings.Split(path, "/")
	changed := false
	for i, seg := range segments {
		if seg == "" || !p.isEncryptionPath(seg) {
			continue
		}
		ciphertext, err := p.encrypt(seg)
		if err != nil {
			return fields, newTransformError(ErrEncrypt, opEncrypt, fmt.Sprintf("path[%d]", i), err)
		}
		segments[i] = ciphertext
		changed = true
		fields++
	}
	if changed {
		req.URL = origin + strings.Join(segments, "/")
		if hasQuery {
			req.URL += "?"
		}
	}
	return fields, nil
}

// markerValue prefers the configured override, then the clock.
func (p *Pipeline) markerValue() string {
	if p.marker != nil {
		if v := p.marker(); v != "" {
			return v
		}
	}
	return strconv.FormatInt(p.now().UnixMilli(), 10)
}

// serialize renders a body as the text handed to the cipher. Text and
// query containers pass through, bodies declared urlencoded are
// stringified as a query, and everything else goes through the codec
// registered for the declared content type.
func (p *Pipeline) serialize(data any, contentType string) (string, error) {
	switch v := data.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case json.RawMessage:
		return string(v), nil
	case RawQuery:
		return string(v), nil
	case url.Values:
		return v.Encode(), nil
	}

	if mediaType(contentType) == mediaTypeForm {
		return qs.Stringify(data), nil
	}

	codec := p.codecs.lookup(contentType)
	b, err := codec.Marshal(data)
	if err != nil {
		return "", newCodecError(ErrMarshal, codec.ContentType(), err)
	}
	return string(b), nil
}

// setContentType declares the body format unless the caller already did:
// urlencoded for query containers, JSON for objects.
func setContentType(data any, h http.Header) {
	if h.Get("Content-Type") != "" {
		return
	}
	switch data.(type) {
	case url.Values, RawQuery:
		h.Set("Content-Type", contentTypeForm)
		return
	}
	if isObject(data) {
		h.Set("Content-Type", contentTypeJSON)
	}
}

// encodeParams renders params as the query string handed to the cipher.
func encodeParams(params any) string {
	switch v := params.(type) {
	case RawQuery:
		return string(v)
	case string:
		return v
	}
	return qs.Stringify(params)
}

// isObject reports whether data is a structured value rather than text.
func isObject(data any) bool {
	if _, ok := data.(json.RawMessage); ok {
		return true
	}
	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Array:
		return true
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	}
	return false
}

// present reports whether a payload slot carries anything to encrypt.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []byte:
		return len(t) > 0
	case RawQuery:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	case reflect.Map, reflect.Slice:
		return !rv.IsNil()
	}
	return true
}
