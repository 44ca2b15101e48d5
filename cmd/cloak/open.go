package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/zoobzio/cloak"
)

func runOpen(args []string) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := registerCommon(fs)

	data := fs.String("data", "", "ciphertext (read from stdin when empty)")
	marker := fs.String("marker", "", "marker header of the originating request")
	contentType := fs.String("content-type", "", "response content type; non-JSON bodies are printed as JSON")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	_, p, logger, code := setup(common)
	if code != 0 {
		return code
	}
	defer func() { _ = logger.Sync() }()

	ciphertext := *data
	if ciphertext == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("read stdin failed", zap.Error(err))
			return 1
		}
		ciphertext = strings.TrimSpace(string(raw))
	}

	resp := &cloak.Response{
		Config:  &cloak.Request{Headers: make(http.Header)},
		Data:    ciphertext,
		Status:  http.StatusOK,
		Headers: make(http.Header),
	}
	if *marker != "" {
		resp.Config.Headers.Set(cloak.HeaderMarker, *marker)
	}
	if *contentType != "" {
		resp.Headers.Set("Content-Type", *contentType)
	}

	if _, err := p.TransformResponse(context.Background(), resp); err != nil {
		logger.Error("decrypt failed", zap.Error(err))
		return 1
	}

	if *contentType != "" && !isJSON(*contentType) {
		var v any
		if err := p.Unmarshal(resp, &v); err != nil {
			logger.Error("decode body failed", zap.String("content_type", *contentType), zap.Error(err))
			return 1
		}
		return writeJSON(jsonSafe(v))
	}

	plaintext, _ := resp.Data.(string)
	fmt.Fprintln(stdout, plaintext)
	return 0
}
