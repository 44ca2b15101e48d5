package cloak

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var errNotCiphertext = errors.New("not ciphertext")

// bracketCipher wraps plaintext in E[...] and counts invocations.
type bracketCipher struct {
	encrypts, decrypts int
	fail               error
}

func (c *bracketCipher) Encrypt(s string) (string, error) {
	c.encrypts++
	if c.fail != nil {
		return "", c.fail
	}
	return "E[" + s + "]", nil
}

func (c *bracketCipher) Decrypt(s string) (string, error) {
	c.decrypts++
	if !strings.HasPrefix(s, "E[") || !strings.HasSuffix(s, "]") {
		return "", errNotCiphertext
	}
	return s[2 : len(s)-1], nil
}

var fixedNow = func() time.Time { return time.UnixMilli(1700000000000) }

func newTestPipeline(t *testing.T, cfg Config) (*Pipeline, *bracketCipher) {
	t.Helper()
	c := &bracketCipher{}
	if cfg.Cipher == nil {
		cfg.Cipher = c
	}
	if cfg.Now == nil {
		cfg.Now = fixedNow
	}
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return p, c
}

func TestNew_MissingKey(t *testing.T) {
	_, err := New(Config{})
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("New() error = %v, want ErrMissingKey", err)
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Algorithm != "aes" {
		t.Errorf("expected ConfigError for aes, got %#v", err)
	}
}

func TestNew_InvalidKey(t *testing.T) {
	if _, err := New(Config{Key: []byte("short")}); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("New() error = %v, want ErrInvalidKeySize", err)
	}
	if _, err := New(Config{Key: testKey, Algorithm: "des"}); !errors.Is(err, ErrInvalidAlgorithm) {
		t.Errorf("New() error = %v, want ErrInvalidAlgorithm", err)
	}
}

func TestNew_PartialOverrideNeedsKey(t *testing.T) {
	_, err := New(Config{Encrypt: func(s string) (string, error) { return s, nil }})
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("New() error = %v, want ErrMissingKey", err)
	}
}

func TestNew_FunctionOverrides(t *testing.T) {
	p, err := New(Config{
		Encrypt: func(s string) (string, error) { return strings.ToUpper(s), nil },
		Decrypt: func(s string) (string, error) { return strings.ToLower(s), nil },
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, _ := p.encrypt("abc")
	if got != "ABC" {
		t.Errorf("encrypt() = %q", got)
	}
}

func TestNew_DefaultCipher(t *testing.T) {
	for _, algo := range []EncryptAlgo{"", EncryptAES, EncryptChaCha20, EncryptEnvelope} {
		t.Run(string(algo), func(t *testing.T) {
			p, err := New(Config{Key: testKey, Algorithm: algo})
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			ciphertext, err := p.encrypt("13800000000")
			if err != nil {
				t.Fatalf("encrypt() error: %v", err)
			}
			plaintext, err := p.decrypt(ciphertext)
			if err != nil || plaintext != "13800000000" {
				t.Errorf("round-trip = %q, %v", plaintext, err)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	p, _ := newTestPipeline(t, Config{})

	if p.Dev() {
		t.Error("development mode should be off by default")
	}
	if len(p.Classifier().Rules()) != 3 {
		t.Errorf("default rules = %d, want 3", len(p.Classifier().Rules()))
	}
	if !p.isEncryptionPath("13800000000") || p.isEncryptionPath("user") {
		t.Error("default path predicate should follow the classifier")
	}
}

func TestNew_DevModes(t *testing.T) {
	p, _ := newTestPipeline(t, Config{Dev: true})
	if !p.Dev() {
		t.Error("Dev: true should enable development mode")
	}

	dev := false
	p, _ = newTestPipeline(t, Config{Dev: true, IsDev: func() bool { return dev }})
	if p.Dev() {
		t.Error("IsDev should take precedence over Dev")
	}
	dev = true
	if !p.Dev() {
		t.Error("IsDev should be consulted on every call")
	}
}

func TestNew_CustomPredicates(t *testing.T) {
	p, _ := newTestPipeline(t, Config{
		Rules:            []Rule{NewRule("order", `ORD\d+`, nil)},
		IsEncryptionPath: func(seg string) bool { return seg == "secret" },
	})

	if !p.isEncryptionPath("secret") || p.isEncryptionPath("ORD1") {
		t.Error("IsEncryptionPath should replace the classifier predicate")
	}
	if !p.Classifier().IsSensitiveSegment("ORD1") {
		t.Error("Rules should still configure the classifier")
	}
}
