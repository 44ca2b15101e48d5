package integration

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/zoobzio/cloak"
	"github.com/zoobzio/cloak/bson"
	"github.com/zoobzio/cloak/msgpack"
	cloaktest "github.com/zoobzio/cloak/testing"
	"github.com/zoobzio/cloak/xml"
	"github.com/zoobzio/cloak/yaml"
)

var profile = cloaktest.Profile{
	Name:   "张三",
	Mobile: "13800000000",
	IDCard: "110101199001011234",
	Tags:   []string{"vip", "beta"},
}

// send plays the role of an HTTP adapter: it applies a transformed
// descriptor to a real request and hands the reply back through the
// response pipeline.
func send(t *testing.T, p *cloak.Pipeline, baseURL, method string, desc *cloak.Request) *cloak.Response {
	t.Helper()
	ctx := context.Background()

	if _, err := p.TransformRequest(ctx, desc); err != nil {
		t.Fatalf("TransformRequest() error: %v", err)
	}

	target := baseURL + desc.URL
	if raw, ok := desc.Params.(cloak.RawQuery); ok {
		target += "?" + string(raw)
	}
	var body io.Reader
	if s, ok := desc.Data.(string); ok {
		body = strings.NewReader(s)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	req.Header = desc.Headers

	httpResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	defer httpResp.Body.Close()
	raw, _ := io.ReadAll(httpResp.Body)

	resp := &cloak.Response{
		Config:  desc,
		Data:    string(raw),
		Status:  httpResp.StatusCode,
		Headers: httpResp.Header,
	}
	if _, err := p.TransformResponse(ctx, resp); err != nil {
		t.Fatalf("TransformResponse() error: %v", err)
	}
	return resp
}

func TestRoundTrip_Codecs(t *testing.T) {
	codecs := []cloak.Codec{cloak.JSON(), yaml.New(), xml.New(), msgpack.New(), bson.New()}

	for _, codec := range codecs {
		t.Run(codec.ContentType(), func(t *testing.T) {
			reply, err := codec.Marshal(profile)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			c := cloaktest.TestCipher(t)
			backend := cloaktest.NewBackend(t, c, codec.ContentType(), string(reply))
			p := cloaktest.TestPipeline(t, cloak.Config{Cipher: c, Codecs: codecs[1:]})

			desc := &cloak.Request{
				URL:     "/profile/13800000000",
				Data:    profile,
				Headers: http.Header{"Content-Type": {codec.ContentType()}},
			}
			resp := send(t, p, backend.URL, http.MethodPut, desc)

			ex := backend.Last()
			if ex.Path != "/profile/13800000000" {
				t.Errorf("server path = %q", ex.Path)
			}
			var sent cloaktest.Profile
			if err := codec.Unmarshal([]byte(ex.Body), &sent); err != nil {
				t.Fatalf("server failed to decode body: %v", err)
			}
			if sent.Mobile != profile.Mobile || sent.Name != profile.Name || len(sent.Tags) != 2 {
				t.Errorf("server saw %+v", sent)
			}

			var got cloaktest.Profile
			if err := p.Unmarshal(resp, &got); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if got.IDCard != profile.IDCard || got.Tags[1] != "beta" {
				t.Errorf("client decoded %+v", got)
			}
		})
	}
}

func TestRoundTrip_Params(t *testing.T) {
	c := cloaktest.TestCipher(t)
	backend := cloaktest.NewBackend(t, c, "application/json", `[]`)
	p := cloaktest.TestPipeline(t, cloak.Config{Cipher: c})

	desc := &cloak.Request{
		URL: "/orders",
		Params: map[string]any{
			"owner":  "张三",
			"ids":    []int{7, 8},
			"filter": map[string]string{"status": "paid"},
		},
	}
	resp := send(t, p, backend.URL, http.MethodGet, desc)

	want := "filter[status]=paid&ids[]=7&ids[]=8&owner=%E5%BC%A0%E4%B8%89"
	if got := backend.Last().Query; got != want {
		t.Errorf("server query = %q, want %q", got, want)
	}
	if resp.Data != "[]" {
		t.Errorf("response = %#v", resp.Data)
	}
}

func TestRoundTrip_Transport(t *testing.T) {
	c := cloaktest.TestCipher(t)
	backend := cloaktest.NewBackend(t, c, "application/json", `{"balance":100}`)
	p := cloaktest.TestPipeline(t, cloak.Config{Cipher: c})
	client := &http.Client{Transport: cloak.NewTransport(p, nil)}

	resp, err := client.Get(backend.URL + "/account/110101199001011234/balance")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if string(body) != `{"balance":100}` {
		t.Errorf("body = %q", body)
	}
	if ex := backend.Last(); ex.Path != "/account/110101199001011234/balance" {
		t.Errorf("server path = %q", ex.Path)
	}
}

func TestRoundTrip_DevMode(t *testing.T) {
	c := cloaktest.TestCipher(t)
	backend := cloaktest.NewBackend(t, c, "application/json", `{"ok":true}`)
	p := cloaktest.TestPipeline(t, cloak.Config{Cipher: c, Dev: true})

	desc := &cloak.Request{URL: "/user/13800000000", Params: map[string]any{"a": "1"}}
	resp := send(t, p, backend.URL, http.MethodGet, desc)

	ex := backend.Last()
	if ex.Marker != cloak.CleartextTag || ex.Path != "/user/13800000000" {
		t.Errorf("exchange = %+v", ex)
	}
	if resp.Data != `{"ok":true}` {
		t.Errorf("response = %#v", resp.Data)
	}
}
