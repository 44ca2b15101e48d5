package main

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/zoobzio/cloak"
)

// setup resolves configuration, the pipeline and the logger for a
// subcommand. A non-zero code means the command should exit with it.
func setup(common commonFlags) (cliConfig, *cloak.Pipeline, *zap.Logger, int) {
	cfg, err := common.resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, nil, nil, 2
	}

	logger, err := newLogger(cfg.dev())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create logger: %v\n", err)
		return cfg, nil, nil, 1
	}

	p, err := cfg.pipeline()
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		_ = logger.Sync()
		return cfg, nil, nil, 2
	}
	return cfg, p, logger, 0
}

func writeJSON(v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode output: %v\n", err)
		return 1
	}
	return 0
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// jsonSafe rewrites decoder-specific shapes, such as BSON documents and
// maps with non-string keys, into values encoding/json renders as objects.
func jsonSafe(v any) any {
	switch t := v.(type) {
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = jsonSafe(e.Value)
		}
		return m
	case bson.A:
		return jsonSafe([]any(t))
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = jsonSafe(val)
		}
		return m
	case map[string]any:
		for k, val := range t {
			t[k] = jsonSafe(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = jsonSafe(val)
		}
		return t
	}
	return v
}
