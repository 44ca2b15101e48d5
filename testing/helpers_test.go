package testing

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/zoobzio/cloak"
)

func TestTestKey(t *testing.T) {
	key := TestKey(t)
	if len(key) != 32 {
		t.Errorf("TestKey() length = %d, want 32", len(key))
	}
}

func TestTestEncryptor(t *testing.T) {
	enc := TestEncryptor(t)

	ciphertext, err := enc.Encrypt([]byte("test"))
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	decrypted, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if string(decrypted) != "test" {
		t.Errorf("round-trip failed")
	}
}

func TestTestPipeline(t *testing.T) {
	p := TestPipeline(t, cloak.Config{})
	if p.Dev() {
		t.Error("TestPipeline() should default to production mode")
	}
}

func TestBackend_Encrypted(t *testing.T) {
	c := TestCipher(t)
	b := NewBackend(t, c, "application/json", `{"ok":true}`)

	path, _ := c.Encrypt("13800000000")
	body, _ := c.Encrypt(`{"a":1}`)

	req, _ := http.NewRequest(http.MethodPost, b.URL+"/user/"+path, strings.NewReader(body))
	req.Header.Set(cloak.HeaderMarker, "1700000000000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	reply, err := c.Decrypt(string(raw))
	if err != nil || reply != `{"ok":true}` {
		t.Errorf("reply = %q, %v", reply, err)
	}

	ex := b.Last()
	if ex.Path != "/user/13800000000" || ex.Body != `{"a":1}` || ex.Marker != "1700000000000" {
		t.Errorf("exchange = %+v", ex)
	}
}

func TestBackend_Cleartext(t *testing.T) {
	b := NewBackend(t, TestCipher(t), "text/plain", "pong")

	req, _ := http.NewRequest(http.MethodGet, b.URL+"/ping?x=1", nil)
	req.Header.Set(cloak.HeaderMarker, cloak.CleartextTag)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != "pong" {
		t.Errorf("reply = %q, want cleartext", raw)
	}
	if ex := b.Last(); ex.Query != "x=1" || ex.Path != "/ping" {
		t.Errorf("exchange = %+v", ex)
	}
	if len(b.Exchanges()) != 1 {
		t.Errorf("Exchanges() = %d, want 1", len(b.Exchanges()))
	}
}
