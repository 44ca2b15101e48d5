package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/zoobzio/cloak"
	"github.com/zoobzio/cloak/qs"
)

// sealed is the wire form of a transformed request.
type sealed struct {
	URL         string `json:"url"`
	Marker      string `json:"marker"`
	ContentType string `json:"content_type,omitempty"`
	Data        string `json:"data,omitempty"`
	Params      string `json:"params,omitempty"`
}

func runSeal(args []string) int {
	fs := flag.NewFlagSet("seal", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := registerCommon(fs)

	target := fs.String("url", "", "request URL or path")
	data := fs.String("data", "", "JSON request body")
	params := fs.String("params", "", "query parameters, e.g. 'a=1&ids[]=2'")
	contentType := fs.String("content-type", "", "body content type; non-JSON types re-encode -data")
	responseType := fs.String("response-type", string(cloak.ResponseJSON), "expected response: json, text, blob, arraybuffer, stream")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *target == "" {
		fmt.Fprintln(os.Stderr, "Error: --url is required")
		return 2
	}

	cfg, p, logger, code := setup(common)
	if code != 0 {
		return code
	}
	defer func() { _ = logger.Sync() }()

	req := &cloak.Request{
		URL:          *target,
		Headers:      make(http.Header),
		ResponseType: cloak.ResponseType(*responseType),
	}
	if *contentType != "" {
		req.Headers.Set("Content-Type", *contentType)
	}
	if *data != "" {
		body, err := requestBody(*data, *contentType)
		if err != nil {
			logger.Error("invalid request body", zap.Error(err))
			return 2
		}
		req.Data = body
	}
	if *params != "" {
		req.Params = qs.Parse(*params)
	}

	if _, err := p.TransformRequest(context.Background(), req); err != nil {
		logger.Error("transform request failed", zap.String("url", p.Classifier().Redact(*target)), zap.Error(err))
		return 1
	}

	out := sealed{
		URL:         req.URL,
		Marker:      req.Headers.Get(cloak.HeaderMarker),
		ContentType: req.Headers.Get("Content-Type"),
	}
	switch v := req.Data.(type) {
	case string:
		out.Data = v
	case json.RawMessage:
		out.Data = string(v)
	}
	switch v := req.Params.(type) {
	case cloak.RawQuery:
		out.Params = string(v)
	case qs.Map:
		out.Params = qs.Stringify(v)
	}

	logger.Debug("request sealed",
		zap.String("url", p.Classifier().Redact(*target)),
		zap.String("marker", out.Marker),
		zap.Bool("dev", cfg.dev()),
	)
	return writeJSON(out)
}

// requestBody keeps JSON bodies verbatim and decodes them for every other
// content type so the matching codec can re-encode the value.
func requestBody(data, contentType string) (any, error) {
	if !json.Valid([]byte(data)) {
		return nil, fmt.Errorf("body is not valid JSON")
	}
	if contentType == "" || isJSON(contentType) {
		return json.RawMessage(data), nil
	}
	var v any
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, err
	}
	return v, nil
}
