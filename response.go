package cloak

import (
	"context"
	"io"
	"time"
)

// TransformResponse decrypts resp.Data in place and returns resp.
//
// The response passes through untouched in development mode, when the
// originating request was marked cleartext, when the body is binary (a byte
// slice, a stream, or a declared blob/arraybuffer/stream response type), or
// when the body is empty. A decryption failure is returned as is.
func (p *Pipeline) TransformResponse(ctx context.Context, resp *Response) (*Response, error) {
	url := p.responseURL(resp)

	if p.isDev() {
		emitResponseSkipped(ctx, url, reasonDev)
		return resp, nil
	}
	if resp.Config != nil && MarkerOf(resp.Config.Headers) == MarkerCleartext {
		emitResponseSkipped(ctx, url, reasonCleartext)
		return resp, nil
	}
	if isBinaryResponse(resp) {
		emitResponseSkipped(ctx, url, reasonBinary)
		return resp, nil
	}

	start := time.Now()
	var ciphertext string
	switch v := resp.Data.(type) {
	case nil:
		emitResponseSkipped(ctx, url, reasonEmpty)
		return resp, nil
	case string:
		if v == "" {
			emitResponseSkipped(ctx, url, reasonEmpty)
			return resp, nil
		}
		ciphertext = v
	default:
		err := newTransformError(ErrDecrypt, opDecrypt, fieldData, ErrUnsupportedPayload)
		emitResponseDecrypted(ctx, url, 0, time.Since(start), err)
		return nil, err
	}

	plaintext, err := p.decrypt(ciphertext)
	if err != nil {
		err = newTransformError(ErrDecrypt, opDecrypt, fieldData, err)
		emitResponseDecrypted(ctx, url, 0, time.Since(start), err)
		return nil, err
	}
	resp.Data = plaintext
	emitResponseDecrypted(ctx, url, len(plaintext), time.Since(start), nil)

	if p.isDev() {
		emitResponseDiagnostic(ctx, url, resp.Config, plaintext)
	}
	return resp, nil
}

// Unmarshal decodes a decrypted response body into v with the codec
// registered for the response Content-Type, JSON by default.
func (p *Pipeline) Unmarshal(resp *Response, v any) error {
	var data []byte
	switch body := resp.Data.(type) {
	case string:
		data = []byte(body)
	case []byte:
		data = body
	default:
		return newTransformError(ErrUnmarshal, "unmarshal", fieldData, ErrUnsupportedPayload)
	}

	codec := p.codecs.lookup(resp.Headers.Get("Content-Type"))
	if err := codec.Unmarshal(data, v); err != nil {
		return newCodecError(ErrUnmarshal, codec.ContentType(), err)
	}
	return nil
}

func isBinaryResponse(resp *Response) bool {
	switch resp.Data.(type) {
	case []byte, io.Reader:
		return true
	}
	return resp.Config != nil && resp.Config.ResponseType.IsBinary()
}

func (p *Pipeline) responseURL(resp *Response) string {
	if resp.Config == nil {
		return ""
	}
	return p.classifier.Redact(resp.Config.URL)
}
