package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zoobzio/cloak"
)

// headerFlags collects repeated -H "Name: value" flags.
type headerFlags []string

func (h *headerFlags) String() string { return strings.Join(*h, ", ") }

func (h *headerFlags) Set(v string) error {
	if _, _, ok := strings.Cut(v, ":"); !ok {
		return fmt.Errorf("header %q must look like 'Name: value'", v)
	}
	*h = append(*h, v)
	return nil
}

func runGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := registerCommon(fs)

	var headers headerFlags
	fs.Var(&headers, "H", "request header 'Name: value' (repeatable)")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	responseType := fs.String("response-type", string(cloak.ResponseJSON), "expected response: json, text, blob, arraybuffer, stream")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one URL is required")
		return 2
	}
	target := fs.Arg(0)

	_, p, logger, code := setup(common)
	if code != 0 {
		return code
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = cloak.WithResponseType(ctx, cloak.ResponseType(*responseType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		logger.Error("invalid url", zap.Error(err))
		return 2
	}
	for _, h := range headers {
		name, value, _ := strings.Cut(h, ":")
		req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	redacted := p.Classifier().Redact(target)
	client := &http.Client{Transport: cloak.NewTransport(p, nil)}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		logger.Error("request failed", zap.String("url", redacted), zap.Error(err))
		return 1
	}
	defer resp.Body.Close()

	logger.Info("response received",
		zap.String("url", redacted),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if _, err := io.Copy(stdout, resp.Body); err != nil {
		logger.Error("read body failed", zap.Error(err))
		return 1
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 1
	}
	return 0
}
