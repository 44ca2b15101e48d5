// Package testing provides test utilities for cloak.
package testing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/zoobzio/cloak"
)

// TestKey returns a valid 32-byte key for AES-256 and ChaCha20.
func TestKey(tb testing.TB) []byte {
	tb.Helper()
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor(tb testing.TB) cloak.Encryptor {
	tb.Helper()
	enc, err := cloak.AES(TestKey(tb))
	if err != nil {
		tb.Fatalf("failed to create test encryptor: %v", err)
	}
	return enc
}

// TestCipher returns the text cipher over TestEncryptor.
func TestCipher(tb testing.TB) cloak.Cipher {
	tb.Helper()
	return cloak.TextCipher(TestEncryptor(tb))
}

// TestPipeline builds a pipeline from cfg, using TestCipher unless cfg
// already configures a cipher.
func TestPipeline(tb testing.TB, cfg cloak.Config) *cloak.Pipeline {
	tb.Helper()
	if cfg.Cipher == nil && cfg.Key == nil && (cfg.Encrypt == nil || cfg.Decrypt == nil) {
		cfg.Cipher = TestCipher(tb)
	}
	p, err := cloak.New(cfg)
	if err != nil {
		tb.Fatalf("failed to create test pipeline: %v", err)
	}
	return p
}

// Profile is a payload carrying every shape the classifier cares about,
// tagged for each body codec.
type Profile struct {
	Name   string   `json:"name" yaml:"name" xml:"name" msgpack:"name" bson:"name"`
	Mobile string   `json:"mobile" yaml:"mobile" xml:"mobile" msgpack:"mobile" bson:"mobile"`
	IDCard string   `json:"id_card" yaml:"id_card" xml:"id_card" msgpack:"id_card" bson:"id_card"`
	Tags   []string `json:"tags" yaml:"tags" xml:"tags" msgpack:"tags" bson:"tags"`
}

// Exchange is one request as observed and decrypted by a Backend.
type Exchange struct {
	Method string
	Marker string
	Path   string
	Query  string
	Body   string
}

// Backend is an HTTP server playing the remote side of the protocol: it
// decrypts whatever the client encrypted, records the exchange, and answers
// with Reply encrypted the same way.
type Backend struct {
	*httptest.Server

	cipher cloak.Cipher
	cls    *cloak.Classifier

	mu        sync.Mutex
	exchanges []Exchange
	reply     string
	replyType string
}

// NewBackend starts a Backend that replies with body under contentType.
// The server is closed when the test ends.
func NewBackend(tb testing.TB, c cloak.Cipher, contentType, body string) *Backend {
	tb.Helper()
	b := &Backend{
		cipher:    c,
		cls:       cloak.NewClassifier(),
		reply:     body,
		replyType: contentType,
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	tb.Cleanup(b.Close)
	return b
}

// Exchanges returns the requests seen so far.
func (b *Backend) Exchanges() []Exchange {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Exchange(nil), b.exchanges...)
}

// Last returns the most recent exchange.
func (b *Backend) Last() Exchange {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.exchanges) == 0 {
		return Exchange{}
	}
	return b.exchanges[len(b.exchanges)-1]
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ex := Exchange{
		Method: r.Method,
		Marker: r.Header.Get(cloak.HeaderMarker),
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(raw),
	}
	encrypted := cloak.MarkerOf(r.Header) == cloak.MarkerEncrypted

	if encrypted {
		ex.Path = b.openPath(r.URL.Path)
		if ex.Query, err = b.open(r.URL.RawQuery); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if ex.Body, err = b.open(ex.Body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	b.mu.Lock()
	b.exchanges = append(b.exchanges, ex)
	b.mu.Unlock()

	reply := b.reply
	if encrypted && reply != "" {
		if reply, err = b.cipher.Encrypt(reply); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	if b.replyType != "" {
		w.Header().Set("Content-Type", b.replyType)
	}
	_, _ = io.WriteString(w, reply)
}

// openPath restores segments that decrypt to a sensitive value. Segments
// that fail to decrypt are plain words and stay as sent.
func (b *Backend) openPath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		plain, err := b.cipher.Decrypt(seg)
		if err != nil {
			continue
		}
		if b.cls.IsSensitiveSegment(plain) {
			segments[i] = plain
		}
	}
	return strings.Join(segments, "/")
}

func (b *Backend) open(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	return b.cipher.Decrypt(s)
}
