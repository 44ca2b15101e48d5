package cloak

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

type responseTypeKey struct{}

// WithResponseType declares the expected response type for requests made
// with ctx. Binary types are never decrypted; ResponseBlob also exempts the
// request from encryption.
func WithResponseType(ctx context.Context, t ResponseType) context.Context {
	return context.WithValue(ctx, responseTypeKey{}, t)
}

func responseTypeFrom(ctx context.Context) ResponseType {
	if t, ok := ctx.Value(responseTypeKey{}).(ResponseType); ok {
		return t
	}
	return ResponseJSON
}

// Transport is an http.RoundTripper that runs every request and response
// through a Pipeline.
//
//	client := &http.Client{Transport: cloak.NewTransport(pipeline, nil)}
//
// Only 2xx responses are decrypted; other statuses are returned as sent by
// the server.
type Transport struct {
	Base     http.RoundTripper
	Pipeline *Pipeline
}

// NewTransport wraps base, or http.DefaultTransport when base is nil.
func NewTransport(p *Pipeline, base http.RoundTripper) *Transport {
	return &Transport{Base: base, Pipeline: p}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper. The caller's request is never
// modified; the transformed request is sent on a clone.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	desc, err := describe(r)
	if err != nil {
		return nil, err
	}
	if _, err := t.Pipeline.TransformRequest(ctx, desc); err != nil {
		return nil, err
	}

	out, err := rebuild(r, desc)
	if err != nil {
		return nil, err
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if err := t.decode(ctx, desc, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// describe builds a Request descriptor from an outbound request, consuming
// and closing its body.
func describe(r *http.Request) (*Request, error) {
	desc := &Request{
		URL:          r.URL.RequestURI(),
		Headers:      r.Header.Clone(),
		ResponseType: responseTypeFrom(r.Context()),
	}
	if desc.Headers == nil {
		desc.Headers = make(http.Header)
	}

	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		if len(body) > 0 {
			desc.Data = body
		}
	}
	return desc, nil
}

// rebuild applies a transformed descriptor to a clone of r.
func rebuild(r *http.Request, desc *Request) (*http.Request, error) {
	out := r.Clone(r.Context())
	out.Header = desc.Headers

	u, err := r.URL.Parse(desc.URL)
	if err != nil {
		return nil, fmt.Errorf("rewrite url: %w", err)
	}
	if raw, ok := desc.Params.(RawQuery); ok && raw != "" {
		if u.RawQuery == "" {
			u.RawQuery = string(raw)
		} else {
			u.RawQuery += "&" + string(raw)
		}
	}
	out.URL = u
	out.Host = r.Host

	var body []byte
	switch v := desc.Data.(type) {
	case string:
		body = []byte(v)
	case []byte:
		body = v
	}
	out.Header.Del("Content-Length")
	out.ContentLength = int64(len(body))
	if len(body) == 0 {
		out.Body = http.NoBody
		out.GetBody = nil
		return out, nil
	}
	out.Body = io.NopCloser(bytes.NewReader(body))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	return out, nil
}

// decode runs the response pipeline over a 2xx response body.
func (t *Transport) decode(ctx context.Context, desc *Request, resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 || desc.ResponseType == ResponseStream {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	view := &Response{
		Config:  desc,
		Status:  resp.StatusCode,
		Headers: resp.Header,
	}
	if desc.ResponseType.IsBinary() {
		view.Data = raw
	} else {
		view.Data = string(raw)
	}

	if _, err := t.Pipeline.TransformResponse(ctx, view); err != nil {
		return err
	}

	var body []byte
	switch v := view.Data.(type) {
	case string:
		body = []byte(v)
	case []byte:
		body = v
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	if resp.Header != nil && resp.Header.Get("Content-Length") != "" {
		resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	}
	return nil
}
